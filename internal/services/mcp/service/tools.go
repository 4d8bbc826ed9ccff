package service

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/therili1/buckshot-roulette-bot/internal/services/mcp/domain"
)

// registerTools adds every roulette tool to server.
func registerTools(server *mcp.Server, client domain.TableClient, get func() domain.Context, set func(domain.Context)) {
	mcp.AddTool(server, domain.SetContextTool(), domain.SetContextHandler(get, set))
	mcp.AddTool(server, domain.SessionOpenTool(), domain.SessionOpenHandler(client, get, set))
	mcp.AddTool(server, domain.SessionJoinTool(), domain.SessionJoinHandler(client, get, set))
	mcp.AddTool(server, domain.SessionStartTool(), domain.SessionStartHandler(client, get))
	mcp.AddTool(server, domain.SessionActTool(), domain.SessionActHandler(client, get))
	mcp.AddTool(server, domain.SessionBoostTool(), domain.SessionBoostHandler(client, get))
	mcp.AddTool(server, domain.SessionGetTool(), domain.SessionGetHandler(client, get))
	mcp.AddTool(server, domain.MatchListTool(), domain.MatchListHandler(client, get))
}
