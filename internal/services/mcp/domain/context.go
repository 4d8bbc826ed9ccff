package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/therili1/buckshot-roulette-bot/internal/platform/i18n/catalog"
)

// ContextResourceURI is the URI of the readable current context.
const ContextResourceURI = "context://current"

// Context is the agent's current seat: tools fall back to it when an input
// omits session_id or player_id.
type Context struct {
	SessionID  string
	PlayerID   string
	PlayerName string
	Locale     string
}

// SetContextInput represents the MCP tool input for setting context.
type SetContextInput struct {
	SessionID  string `json:"session_id,omitempty" jsonschema:"session to act in by default"`
	PlayerID   string `json:"player_id,omitempty" jsonschema:"player identity to act as by default"`
	PlayerName string `json:"player_name,omitempty" jsonschema:"display name used when joining"`
	Locale     string `json:"locale,omitempty" jsonschema:"locale for rendered event text, e.g. en-US or uk-UA"`
}

// ContextResult is the current context as returned to clients.
type ContextResult struct {
	SessionID  string `json:"session_id,omitempty" jsonschema:"default session identifier"`
	PlayerID   string `json:"player_id,omitempty" jsonschema:"default player identifier"`
	PlayerName string `json:"player_name,omitempty" jsonschema:"default player display name"`
	Locale     string `json:"locale" jsonschema:"resolved locale"`
}

// SetContextTool defines the MCP tool schema for setting context.
func SetContextTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_context",
		Description: "Sets the default session, player and locale for subsequent roulette tool calls. Omitted fields keep their current value.",
	}
}

// SetContextHandler merges input into the current context.
func SetContextHandler(getContext func() Context, setContext func(Context)) mcp.ToolHandlerFor[SetContextInput, ContextResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SetContextInput) (*mcp.CallToolResult, ContextResult, error) {
		current := getContext()
		if v := strings.TrimSpace(input.SessionID); v != "" {
			current.SessionID = v
		}
		if v := strings.TrimSpace(input.PlayerID); v != "" {
			current.PlayerID = v
		}
		if v := strings.TrimSpace(input.PlayerName); v != "" {
			current.PlayerName = v
		}
		if v := strings.TrimSpace(input.Locale); v != "" {
			current.Locale = catalog.Default().Resolve(v)
		}
		setContext(current)
		return nil, contextResult(current), nil
	}
}

// ContextResource describes the readable current context.
func ContextResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "context_current",
		Title:       "Current Context",
		Description: "Default session_id, player_id, player_name and locale used by roulette tools",
		MIMEType:    "application/json",
		URI:         ContextResourceURI,
	}
}

// ContextResourceHandler serves the current context as JSON.
func ContextResourceHandler(getContext func() Context) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := ContextResourceURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		if uri != ContextResourceURI {
			return nil, fmt.Errorf("invalid URI: expected %s, got %q", ContextResourceURI, uri)
		}
		data, err := json.MarshalIndent(contextResult(getContext()), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal context: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}
}

func contextResult(c Context) ContextResult {
	locale := c.Locale
	if locale == "" {
		locale = catalog.BaseLocale
	}
	return ContextResult{
		SessionID:  c.SessionID,
		PlayerID:   c.PlayerID,
		PlayerName: c.PlayerName,
		Locale:     locale,
	}
}

// sessionOrDefault returns id, or the context session when id is blank.
func (c Context) sessionOrDefault(id string) (string, error) {
	if v := strings.TrimSpace(id); v != "" {
		return v, nil
	}
	if c.SessionID != "" {
		return c.SessionID, nil
	}
	return "", fmt.Errorf("session_id is required (or set it with set_context)")
}

func (c Context) playerOrDefault(id string) (string, error) {
	if v := strings.TrimSpace(id); v != "" {
		return v, nil
	}
	if c.PlayerID != "" {
		return c.PlayerID, nil
	}
	return "", fmt.Errorf("player_id is required (or set it with set_context)")
}
