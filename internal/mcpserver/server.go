// Package mcpserver exposes a die session as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/louisbranch/loadeddie/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "loadeddie"
	serverVersion = "0.1.0"

	// maxRollTimes caps how many throws one die_roll call may request.
	maxRollTimes = 1000
)

// RollInput is the die_roll tool input.
type RollInput struct {
	Times int `json:"times,omitempty" jsonschema:"number of throws, defaults to 1"`
}

// RollResult is the die_roll tool output.
type RollResult struct {
	Faces    []int `json:"faces" jsonschema:"faces rolled by this call in order"`
	Face     int   `json:"face" jsonschema:"last face rolled"`
	Rolls    int64 `json:"rolls" jsonschema:"total throws in the session"`
	Cheating bool  `json:"cheating" jsonschema:"whether the die was loaded"`
}

// ToggleInput is the die_toggle_cheating tool input.
type ToggleInput struct{}

// ToggleResult is the die_toggle_cheating tool output.
type ToggleResult struct {
	Cheating bool `json:"cheating" jsonschema:"cheat mode after the toggle"`
}

// StateInput is the die_state tool input.
type StateInput struct{}

// StateResult is the die_state tool output.
type StateResult struct {
	SessionID string `json:"session_id" jsonschema:"session identifier"`
	Rolls     int64  `json:"rolls" jsonschema:"total throws in the session"`
	HasThrown bool   `json:"has_thrown" jsonschema:"whether the die was ever rolled"`
	Result    *int   `json:"result,omitempty" jsonschema:"last face, absent before the first roll"`
	Cheating  bool   `json:"cheating" jsonschema:"whether cheat mode is on"`
}

// Server serves die tools over MCP. Tool calls may arrive concurrently, so
// access to the session is serialized here.
type Server struct {
	mcpServer *mcp.Server

	mu      sync.Mutex
	session *session.Session
}

// New creates an MCP server bound to s.
func New(s *session.Session) (*Server, error) {
	if s == nil {
		return nil, fmt.Errorf("session is required")
	}
	server := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil),
		session:   s,
	}
	mcp.AddTool(server.mcpServer, RollTool(), server.rollHandler)
	mcp.AddTool(server.mcpServer, ToggleCheatingTool(), server.toggleHandler)
	mcp.AddTool(server.mcpServer, StateTool(), server.stateHandler)
	return server, nil
}

// RollTool defines the die_roll tool.
func RollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "die_roll",
		Description: "Rolls the six-sided die one or more times",
	}
}

// ToggleCheatingTool defines the die_toggle_cheating tool.
func ToggleCheatingTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "die_toggle_cheating",
		Description: "Flips cheat mode; a cheating die lands on 6 far more often",
	}
}

// StateTool defines the die_state tool.
func StateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "die_state",
		Description: "Reports the die's last result, cheat mode, and roll count",
	}
}

func (s *Server) rollHandler(ctx context.Context, _ *mcp.CallToolRequest, input RollInput) (*mcp.CallToolResult, RollResult, error) {
	times := input.Times
	if times == 0 {
		times = 1
	}
	if times < 0 || times > maxRollTimes {
		return nil, RollResult{}, fmt.Errorf("times must be between 1 and %d", maxRollTimes)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	faces := make([]int, 0, times)
	var rollErr error
	for i := 0; i < times; i++ {
		face, err := s.session.Roll(ctx)
		// The die has moved even when journaling fails, so the face is kept.
		faces = append(faces, face)
		if err != nil {
			rollErr = err
			break
		}
	}
	state := s.session.State()
	result := RollResult{
		Faces:    faces,
		Face:     faces[len(faces)-1],
		Rolls:    state.Rolls,
		Cheating: state.Cheating,
	}
	if rollErr != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{
				Text: fmt.Sprintf("rolled %d of %d: %v", len(faces), times, rollErr),
			}},
		}, result, nil
	}
	return nil, result, nil
}

func (s *Server) toggleHandler(ctx context.Context, _ *mcp.CallToolRequest, _ ToggleInput) (*mcp.CallToolResult, ToggleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return nil, ToggleResult{Cheating: s.session.ToggleCheating(ctx)}, nil
}

func (s *Server) stateHandler(_ context.Context, _ *mcp.CallToolRequest, _ StateInput) (*mcp.CallToolResult, StateResult, error) {
	s.mu.Lock()
	state := s.session.State()
	s.mu.Unlock()

	result := StateResult{
		SessionID: state.ID,
		Rolls:     state.Rolls,
		HasThrown: state.HasThrown,
		Cheating:  state.Cheating,
	}
	if state.HasThrown {
		face := state.Result
		result.Result = &face
	}
	return nil, result, nil
}

// Serve runs the server on stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
