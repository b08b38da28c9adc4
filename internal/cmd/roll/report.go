package roll

import (
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/louisbranch/loadeddie/internal/app"
	"github.com/louisbranch/loadeddie/internal/core/die"
	"github.com/louisbranch/loadeddie/internal/session"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newPrinter(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

func writeSummary(p *message.Printer, out io.Writer, table *app.Table, state session.State) {
	p.Fprintf(out, "session %s\n", state.ID)
	p.Fprintf(out, "seed %s (%s)\n", strconv.FormatInt(table.Seed, 10), table.SeedSource)
	p.Fprintf(out, "cheating: %t\n", state.Cheating)
	p.Fprintf(out, "rolls: %d\n", state.Rolls)
	if state.HasThrown {
		p.Fprintf(out, "last: %d\n", state.Result)
	} else {
		p.Fprintf(out, "last: none\n")
	}
}

// writeDistribution prints observed against expected frequency per face.
// Every face in tally must have been rolled in the given cheat mode.
func writeDistribution(p *message.Printer, out io.Writer, tally die.Tally, cheating bool) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	p.Fprintf(w, "face\tcount\tobserved\texpected\n")
	for face := 1; face <= die.Sides; face++ {
		p.Fprintf(w, "%d\t%d\t%.2f%%\t%.2f%%\n",
			face,
			tally.Count(face),
			tally.Frequency(face)*100,
			die.Probability(face, cheating)*100,
		)
	}
	_ = w.Flush()
}

func writeModeDistribution(p *message.Printer, out io.Writer, mode string, tally die.Tally, cheating bool) {
	if tally.Total() == 0 {
		return
	}
	p.Fprintf(out, "%s: %d rolls\n", mode, tally.Total())
	writeDistribution(p, out, tally, cheating)
}
