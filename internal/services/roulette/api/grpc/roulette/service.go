package roulette

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/grpc/metadata"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/wire"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/history"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/render"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/table"
)

// Service exposes roulette.v1.TableService over a table and match history.
type Service struct {
	table   *table.Table
	history *history.Service
	render  *render.Renderer
}

// NewService creates the gRPC service. history may be nil, in which case the
// match methods report Unimplemented.
func NewService(t *table.Table, h *history.Service) *Service {
	return &Service{table: t, history: h, render: render.New()}
}

// CreateOrGetSession opens the table for session_id.
func (s *Service) CreateOrGetSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	view, created, err := s.table.CreateOrGet(ctx, stringField(in, "session_id"))
	if err != nil {
		return nil, err
	}
	return toStruct(struct {
		Session wire.Session `json:"session"`
		Created bool         `json:"created"`
	}{wire.FromView(view), created})
}

// JoinSession seats the caller. The player id comes from the request or,
// when absent, from the player header.
func (s *Service) JoinSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(in, "session_id")
	playerID := callerID(ctx, in)
	name := stringField(in, "player_name")
	if name == "" {
		name = playerID
	}
	ev, err := s.table.Join(ctx, id, playerID, name)
	if err != nil {
		return nil, err
	}
	view, err := s.table.View(ctx, id)
	if err != nil {
		return nil, err
	}
	return toStruct(struct {
		Event   wire.Event   `json:"event"`
		Session wire.Session `json:"session"`
	}{wire.FromEvent(s.render, metadata.LocaleFromContext(ctx), ev), wire.FromView(view)})
}

// StartSession deals the first chamber.
func (s *Service) StartSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(in, "session_id")
	events, err := s.table.Start(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := s.table.View(ctx, id)
	if err != nil {
		return nil, err
	}
	r := s.render.WithNames(wire.Names(view))
	return toStruct(struct {
		Events  []wire.Event `json:"events"`
		Session wire.Session `json:"session"`
	}{wire.FromEvents(r, metadata.LocaleFromContext(ctx), events), wire.FromView(view)})
}

// Act performs action ("shoot" or "use_item") for the caller.
func (s *Service) Act(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(in, "session_id")
	playerID := callerID(ctx, in)
	action, ok := session.ParseAction(stringField(in, "action"))
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "unknown action", map[string]string{"Field": "action"})
	}
	// Names are captured first: a finishing shot removes the session.
	names := map[string]string{}
	if view, err := s.table.View(ctx, id); err == nil {
		names = wire.Names(view)
	}
	out, err := s.table.Act(ctx, id, playerID, action)
	if err != nil {
		return nil, err
	}
	r := s.render.WithNames(names)
	return toStruct(struct {
		Action   string       `json:"action"`
		Events   []wire.Event `json:"events"`
		Finished bool         `json:"finished"`
	}{out.Action.String(), wire.FromEvents(r, metadata.LocaleFromContext(ctx), out.Events), out.Finished})
}

// Boost marks the caller's next shot as boosted.
func (s *Service) Boost(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(in, "session_id")
	if err := s.table.Boost(ctx, id, callerID(ctx, in)); err != nil {
		return nil, err
	}
	return s.GetSession(ctx, in)
}

// GetSession returns a session snapshot.
func (s *Service) GetSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	view, err := s.table.View(ctx, stringField(in, "session_id"))
	if err != nil {
		return nil, err
	}
	return toStruct(struct {
		Session wire.Session `json:"session"`
	}{wire.FromView(view)})
}

// ListSessions returns every open session ordered by id.
func (s *Service) ListSessions(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	views := s.table.List(ctx)
	sessions := make([]wire.Session, 0, len(views))
	for _, v := range views {
		sessions = append(sessions, wire.FromView(v))
	}
	return toStruct(struct {
		Sessions []wire.Session `json:"sessions"`
	}{sessions})
}

// ListMatches pages finished matches, newest first.
func (s *Service) ListMatches(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.history == nil {
		return nil, status.Error(codes.Unimplemented, "match history is not configured")
	}
	page, err := s.history.List(ctx, history.ListRequest{
		Filter:    stringField(in, "filter"),
		PageSize:  intField(in, "page_size"),
		PageToken: stringField(in, "page_token"),
	})
	if err != nil {
		return nil, err
	}
	matches := make([]wire.Match, 0, len(page.Matches))
	for _, m := range page.Matches {
		matches = append(matches, wire.FromMatch(m))
	}
	return toStruct(struct {
		Matches       []wire.Match `json:"matches"`
		NextPageToken string       `json:"next_page_token,omitempty"`
	}{matches, page.NextPageToken})
}

// GetMatch returns one finished match.
func (s *Service) GetMatch(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.history == nil {
		return nil, status.Error(codes.Unimplemented, "match history is not configured")
	}
	rec, err := s.history.Get(ctx, stringField(in, "match_id"))
	if err != nil {
		return nil, err
	}
	return toStruct(struct {
		Match wire.Match `json:"match"`
	}{wire.FromMatch(rec)})
}

// WatchSession streams session events until the session closes or the
// caller goes away. Private events reach only their recipient.
func (s *Service) WatchSession(in *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	ctx := stream.Context()
	id := stringField(in, "session_id")
	playerID := callerID(ctx, in)
	locale := metadata.LocaleFromContext(ctx)

	events, cancel := s.table.Broker().Subscribe(id)
	defer cancel()
	view, err := s.table.View(ctx, id)
	if err != nil {
		return err
	}
	names := wire.Names(view)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if joined, isJoin := ev.(session.PlayerJoined); isJoin {
				names[joined.PlayerID] = joined.PlayerName
			}
			if to := ev.Recipient(); to != "" && to != playerID {
				continue
			}
			msg, err := toStruct(struct {
				Event wire.Event `json:"event"`
			}{wire.FromEvent(s.render.WithNames(names), locale, ev)})
			if err != nil {
				return err
			}
			if err := stream.Send(msg); err != nil {
				return err
			}
		}
	}
}

func callerID(ctx context.Context, in *structpb.Struct) string {
	if id := stringField(in, "player_id"); id != "" {
		return id
	}
	return metadata.PlayerIDFromContext(ctx)
}
