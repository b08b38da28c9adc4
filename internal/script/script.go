// Package script runs Lua host programs against a die session.
//
// Scripts see a global `die` table:
//
//	die.roll()            -- throws the die, returns the face
//	die.toggle_cheating() -- flips cheat mode, returns the new flag
//	die.is_cheating()     -- current cheat flag
//	die.has_thrown()      -- whether the die was ever rolled
//	die.result()          -- last face, or nil before the first roll
//
// print writes to the writer passed to Run.
package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/louisbranch/loadeddie/internal/session"
)

// cancelCheckInterval is how many VM instructions run between context checks.
const cancelCheckInterval = 1000

// Run executes source against s. name labels the chunk in error messages.
func Run(ctx context.Context, s *session.Session, name, source string, out io.Writer) error {
	if s == nil {
		return fmt.Errorf("session is required")
	}
	if out == nil {
		out = io.Discard
	}
	if strings.TrimSpace(name) == "" {
		name = "script"
	}

	state := newState(ctx, s, out)
	if err := lua.LoadBuffer(state, source, name, "t"); err != nil {
		return fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("run lua: %w", ctxErr)
		}
		return fmt.Errorf("run lua: %w", err)
	}
	return nil
}

// RunFile executes the Lua script at path against s.
func RunFile(ctx context.Context, s *session.Session, path string, out io.Writer) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return Run(ctx, s, "@"+filepath.Base(path), string(content), out)
}

func newState(ctx context.Context, s *session.Session, out io.Writer) *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)

	lua.SetDebugHook(state, func(l *lua.State, _ lua.Debug) {
		if err := ctx.Err(); err != nil {
			lua.Errorf(l, "%s", err.Error())
		}
	}, lua.MaskCount, cancelCheckInterval)

	state.Register("print", printTo(out))

	state.NewTable()
	lua.SetFunctions(state, dieFunctions(ctx, s), 0)
	state.SetGlobal("die")
	return state
}

func dieFunctions(ctx context.Context, s *session.Session) []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "roll", Function: func(l *lua.State) int {
			face, err := s.Roll(ctx)
			if err != nil {
				lua.Errorf(l, "%s", err.Error())
			}
			l.PushInteger(face)
			return 1
		}},
		{Name: "toggle_cheating", Function: func(l *lua.State) int {
			l.PushBoolean(s.ToggleCheating(ctx))
			return 1
		}},
		{Name: "is_cheating", Function: func(l *lua.State) int {
			l.PushBoolean(s.State().Cheating)
			return 1
		}},
		{Name: "has_thrown", Function: func(l *lua.State) int {
			l.PushBoolean(s.State().HasThrown)
			return 1
		}},
		{Name: "result", Function: func(l *lua.State) int {
			state := s.State()
			if !state.HasThrown {
				l.PushNil()
				return 1
			}
			l.PushInteger(state.Result)
			return 1
		}},
	}
}

func printTo(out io.Writer) lua.Function {
	return func(l *lua.State) int {
		n := l.Top()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			value, ok := lua.ToStringMeta(l, i)
			if !ok {
				lua.Errorf(l, "'tostring' must return a string to 'print'")
			}
			parts = append(parts, value)
			l.Pop(1)
		}
		fmt.Fprintln(out, strings.Join(parts, "\t"))
		return 0
	}
}
