package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	grpcmeta "github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/grpc/metadata"
)

// SessionOpenInput represents the MCP tool input for opening a session.
type SessionOpenInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session identifier, e.g. a chat id; defaults to the context session"`
}

// SessionOpenResult represents the MCP tool output for opening a session.
type SessionOpenResult struct {
	Session SessionResult `json:"session" jsonschema:"session snapshot"`
	Created bool          `json:"created" jsonschema:"true when a new session was opened"`
}

// SessionOpenTool defines the MCP tool schema for opening a session.
func SessionOpenTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_open",
		Description: "Opens a waiting roulette session, or returns the existing one with the same id. The session becomes the context default.",
	}
}

// SessionOpenHandler executes a create-or-get request.
func SessionOpenHandler(client TableClient, getContext func() Context, setContext func(Context)) mcp.ToolHandlerFor[SessionOpenInput, SessionOpenResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionOpenInput) (*mcp.CallToolResult, SessionOpenResult, error) {
		current := getContext()
		sessionID, err := current.sessionOrDefault(input.SessionID)
		if err != nil {
			return nil, SessionOpenResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		s, created, err := client.CreateOrGetSession(grpcmeta.Outgoing(runCtx, current.Locale, ""), sessionID)
		if err != nil {
			return nil, SessionOpenResult{}, callError("session open", err)
		}
		current.SessionID = s.ID
		setContext(current)
		return nil, SessionOpenResult{Session: sessionResult(s), Created: created}, nil
	}
}

// SessionJoinInput represents the MCP tool input for joining a session.
type SessionJoinInput struct {
	SessionID  string `json:"session_id,omitempty" jsonschema:"session identifier; defaults to the context session"`
	PlayerID   string `json:"player_id,omitempty" jsonschema:"player identity; defaults to the context player"`
	PlayerName string `json:"player_name,omitempty" jsonschema:"display name; defaults to the context name, then the player id"`
}

// SessionJoinResult represents the MCP tool output for joining a session.
type SessionJoinResult struct {
	PlayerID string      `json:"player_id" jsonschema:"the seated player"`
	Event    EventResult `json:"event" jsonschema:"join announcement"`
}

// SessionJoinTool defines the MCP tool schema for joining a session.
func SessionJoinTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_join",
		Description: "Seats a player in a waiting session, opening it on the first join. A player can sit in one session at a time.",
	}
}

// SessionJoinHandler executes a join request and remembers the seat.
func SessionJoinHandler(client TableClient, getContext func() Context, setContext func(Context)) mcp.ToolHandlerFor[SessionJoinInput, SessionJoinResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionJoinInput) (*mcp.CallToolResult, SessionJoinResult, error) {
		current := getContext()
		sessionID, err := current.sessionOrDefault(input.SessionID)
		if err != nil {
			return nil, SessionJoinResult{}, err
		}
		playerID, err := current.playerOrDefault(input.PlayerID)
		if err != nil {
			return nil, SessionJoinResult{}, err
		}
		name := strings.TrimSpace(input.PlayerName)
		if name == "" && playerID == current.PlayerID {
			name = current.PlayerName
		}
		if name == "" {
			name = playerID
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		ev, err := client.JoinSession(grpcmeta.Outgoing(runCtx, current.Locale, playerID), sessionID, playerID, name)
		if err != nil {
			return nil, SessionJoinResult{}, callError("session join", err)
		}
		current.SessionID = sessionID
		current.PlayerID = playerID
		current.PlayerName = name
		setContext(current)
		return nil, SessionJoinResult{PlayerID: playerID, Event: EventResult{Kind: ev.Kind, Text: ev.Text}}, nil
	}
}

// SessionStartInput represents the MCP tool input for starting a session.
type SessionStartInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session identifier; defaults to the context session"`
}

// EventsResult is a list of events visible to the context player.
type EventsResult struct {
	Events []EventResult `json:"events" jsonschema:"rendered events in emission order"`
}

// SessionStartTool defines the MCP tool schema for starting a session.
func SessionStartTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_start",
		Description: "Starts a waiting session with at least two players: loads the chamber, deals items and prompts the first player.",
	}
}

// SessionStartHandler executes a start request.
func SessionStartHandler(client TableClient, getContext func() Context) mcp.ToolHandlerFor[SessionStartInput, EventsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionStartInput) (*mcp.CallToolResult, EventsResult, error) {
		current := getContext()
		sessionID, err := current.sessionOrDefault(input.SessionID)
		if err != nil {
			return nil, EventsResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		events, err := client.StartSession(grpcmeta.Outgoing(runCtx, current.Locale, ""), sessionID)
		if err != nil {
			return nil, EventsResult{}, callError("session start", err)
		}
		return nil, EventsResult{Events: visibleEvents(events, current.PlayerID)}, nil
	}
}

// SessionActInput represents the MCP tool input for taking a turn.
type SessionActInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session identifier; defaults to the context session"`
	PlayerID  string `json:"player_id,omitempty" jsonschema:"acting player; defaults to the context player"`
	Action    string `json:"action" jsonschema:"shoot or use_item"`
}

// SessionActResult represents the MCP tool output for taking a turn.
type SessionActResult struct {
	Action   string        `json:"action" jsonschema:"the performed action"`
	Events   []EventResult `json:"events" jsonschema:"rendered events visible to the acting player"`
	Finished bool          `json:"finished" jsonschema:"true when this action ended the game"`
}

// SessionActTool defines the MCP tool schema for taking a turn.
func SessionActTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_act",
		Description: "Takes the current turn. shoot fires the next round at yourself; use_item lists your items without ending the turn.",
	}
}

// SessionActHandler executes an act request.
func SessionActHandler(client TableClient, getContext func() Context) mcp.ToolHandlerFor[SessionActInput, SessionActResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionActInput) (*mcp.CallToolResult, SessionActResult, error) {
		current := getContext()
		sessionID, err := current.sessionOrDefault(input.SessionID)
		if err != nil {
			return nil, SessionActResult{}, err
		}
		playerID, err := current.playerOrDefault(input.PlayerID)
		if err != nil {
			return nil, SessionActResult{}, err
		}
		action := strings.ToLower(strings.TrimSpace(input.Action))
		if action == "" {
			return nil, SessionActResult{}, fmt.Errorf("action is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		out, err := client.Act(grpcmeta.Outgoing(runCtx, current.Locale, playerID), sessionID, playerID, action)
		if err != nil {
			return nil, SessionActResult{}, callError("act", err)
		}
		return nil, SessionActResult{
			Action:   out.Action,
			Events:   visibleEvents(out.Events, playerID),
			Finished: out.Finished,
		}, nil
	}
}

// SessionBoostInput represents the MCP tool input for boosting a shot.
type SessionBoostInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session identifier; defaults to the context session"`
	PlayerID  string `json:"player_id,omitempty" jsonschema:"player whose next shot deals extra damage; defaults to the context player"`
}

// SessionResultOutput wraps a session snapshot.
type SessionResultOutput struct {
	Session SessionResult `json:"session" jsonschema:"session snapshot"`
}

// SessionBoostTool defines the MCP tool schema for boosting a shot.
func SessionBoostTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_boost",
		Description: "Multiplies the damage of a player's next shot. The boost is consumed by the next shot, live or blank.",
	}
}

// SessionBoostHandler executes a boost request.
func SessionBoostHandler(client TableClient, getContext func() Context) mcp.ToolHandlerFor[SessionBoostInput, SessionResultOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionBoostInput) (*mcp.CallToolResult, SessionResultOutput, error) {
		current := getContext()
		sessionID, err := current.sessionOrDefault(input.SessionID)
		if err != nil {
			return nil, SessionResultOutput{}, err
		}
		playerID, err := current.playerOrDefault(input.PlayerID)
		if err != nil {
			return nil, SessionResultOutput{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()
		callCtx := grpcmeta.Outgoing(runCtx, current.Locale, playerID)

		if err := client.Boost(callCtx, sessionID, playerID); err != nil {
			return nil, SessionResultOutput{}, callError("boost", err)
		}
		s, err := client.GetSession(callCtx, sessionID)
		if err != nil {
			return nil, SessionResultOutput{}, callError("get session", err)
		}
		return nil, SessionResultOutput{Session: sessionResult(s)}, nil
	}
}

// SessionGetInput represents the MCP tool input for reading a session.
type SessionGetInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session identifier; defaults to the context session"`
}

// SessionGetTool defines the MCP tool schema for reading a session.
func SessionGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_get",
		Description: "Returns a session snapshot: players, health, items, whose turn it is and rounds left. Chamber contents stay hidden.",
	}
}

// SessionGetHandler executes a get request.
func SessionGetHandler(client TableClient, getContext func() Context) mcp.ToolHandlerFor[SessionGetInput, SessionResultOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionGetInput) (*mcp.CallToolResult, SessionResultOutput, error) {
		current := getContext()
		sessionID, err := current.sessionOrDefault(input.SessionID)
		if err != nil {
			return nil, SessionResultOutput{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		s, err := client.GetSession(grpcmeta.Outgoing(runCtx, current.Locale, ""), sessionID)
		if err != nil {
			return nil, SessionResultOutput{}, callError("get session", err)
		}
		return nil, SessionResultOutput{Session: sessionResult(s)}, nil
	}
}

// MatchListInput represents the MCP tool input for listing matches.
type MatchListInput struct {
	Filter    string `json:"filter,omitempty" jsonschema:"AIP-160 filter, e.g. winner_id = \"u1\" or player_count >= 3"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum matches to return"`
	PageToken string `json:"page_token,omitempty" jsonschema:"token from a previous call"`
}

// MatchListResult represents the MCP tool output for listing matches.
type MatchListResult struct {
	Matches       []MatchResult `json:"matches" jsonschema:"finished matches, newest first"`
	NextPageToken string        `json:"next_page_token,omitempty" jsonschema:"token for the next page"`
}

// MatchListTool defines the MCP tool schema for listing matches.
func MatchListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "match_list",
		Description: "Lists finished matches, newest first, optionally filtered by winner_id, session_id, player_count, shots or finished_at.",
	}
}

// MatchListHandler executes a list request.
func MatchListHandler(client TableClient, getContext func() Context) mcp.ToolHandlerFor[MatchListInput, MatchListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MatchListInput) (*mcp.CallToolResult, MatchListResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		matches, next, err := client.ListMatches(grpcmeta.Outgoing(runCtx, getContext().Locale, ""), input.Filter, input.PageSize, input.PageToken)
		if err != nil {
			return nil, MatchListResult{}, callError("list matches", err)
		}
		out := MatchListResult{Matches: make([]MatchResult, 0, len(matches)), NextPageToken: next}
		for _, m := range matches {
			out.Matches = append(out.Matches, matchResult(m))
		}
		return nil, out, nil
	}
}
