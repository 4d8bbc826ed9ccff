package domain

import (
	"context"

	roulettegrpc "github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/grpc/roulette"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/wire"
)

// TableClient is the subset of the TableService client the tools use.
type TableClient interface {
	CreateOrGetSession(ctx context.Context, sessionID string) (wire.Session, bool, error)
	JoinSession(ctx context.Context, sessionID, playerID, name string) (wire.Event, error)
	StartSession(ctx context.Context, sessionID string) ([]wire.Event, error)
	Act(ctx context.Context, sessionID, playerID, action string) (roulettegrpc.ActResult, error)
	Boost(ctx context.Context, sessionID, playerID string) error
	GetSession(ctx context.Context, sessionID string) (wire.Session, error)
	ListMatches(ctx context.Context, filter string, pageSize int, pageToken string) ([]wire.Match, string, error)
}

var _ TableClient = (*roulettegrpc.Client)(nil)
