package roulette

import (
	"context"
	"errors"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/wire"
)

// Client calls TableService.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient returns a client over cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes the unary method with in as request fields and decodes the
// response into out when out is non-nil.
func (c *Client) Call(ctx context.Context, method string, in map[string]any, out any, opts ...grpc.CallOption) error {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), req, resp, opts...); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return fromStruct(resp, out)
}

// ActResult is the decoded Act response.
type ActResult struct {
	Action   string       `json:"action"`
	Events   []wire.Event `json:"events"`
	Finished bool         `json:"finished"`
}

// CreateOrGetSession opens or fetches a session.
func (c *Client) CreateOrGetSession(ctx context.Context, sessionID string) (wire.Session, bool, error) {
	var out struct {
		Session wire.Session `json:"session"`
		Created bool         `json:"created"`
	}
	err := c.Call(ctx, MethodCreateOrGetSession, map[string]any{"session_id": sessionID}, &out)
	return out.Session, out.Created, err
}

// JoinSession seats a player and returns the join announcement.
func (c *Client) JoinSession(ctx context.Context, sessionID, playerID, name string) (wire.Event, error) {
	var out struct {
		Event wire.Event `json:"event"`
	}
	err := c.Call(ctx, MethodJoinSession, map[string]any{
		"session_id":  sessionID,
		"player_id":   playerID,
		"player_name": name,
	}, &out)
	return out.Event, err
}

// StartSession starts a waiting session.
func (c *Client) StartSession(ctx context.Context, sessionID string) ([]wire.Event, error) {
	var out struct {
		Events []wire.Event `json:"events"`
	}
	err := c.Call(ctx, MethodStartSession, map[string]any{"session_id": sessionID}, &out)
	return out.Events, err
}

// Act performs action for playerID.
func (c *Client) Act(ctx context.Context, sessionID, playerID, action string) (ActResult, error) {
	var out ActResult
	err := c.Call(ctx, MethodAct, map[string]any{
		"session_id": sessionID,
		"player_id":  playerID,
		"action":     action,
	}, &out)
	return out, err
}

// Boost boosts playerID's next shot.
func (c *Client) Boost(ctx context.Context, sessionID, playerID string) error {
	return c.Call(ctx, MethodBoost, map[string]any{"session_id": sessionID, "player_id": playerID}, nil)
}

// GetSession fetches a session snapshot.
func (c *Client) GetSession(ctx context.Context, sessionID string) (wire.Session, error) {
	var out struct {
		Session wire.Session `json:"session"`
	}
	err := c.Call(ctx, MethodGetSession, map[string]any{"session_id": sessionID}, &out)
	return out.Session, err
}

// ListMatches fetches one page of finished matches.
func (c *Client) ListMatches(ctx context.Context, filter string, pageSize int, pageToken string) ([]wire.Match, string, error) {
	var out struct {
		Matches       []wire.Match `json:"matches"`
		NextPageToken string       `json:"next_page_token"`
	}
	err := c.Call(ctx, MethodListMatches, map[string]any{
		"filter":     filter,
		"page_size":  pageSize,
		"page_token": pageToken,
	}, &out)
	return out.Matches, out.NextPageToken, err
}

// Watch streams events of sessionID as seen by playerID. fn is called for
// each event; Watch returns when the session closes, ctx ends or fn errors.
func (c *Client) Watch(ctx context.Context, sessionID, playerID string, fn func(wire.Event) error) error {
	req, err := structpb.NewStruct(map[string]any{"session_id": sessionID, "player_id": playerID})
	if err != nil {
		return err
	}
	stream, err := c.cc.NewStream(ctx, &TableServiceDesc.Streams[0], fullMethod(MethodWatchSession))
	if err != nil {
		return err
	}
	if err := stream.SendMsg(req); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}
	for {
		msg := new(structpb.Struct)
		if err := stream.RecvMsg(msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var out struct {
			Event wire.Event `json:"event"`
		}
		if err := fromStruct(msg, &out); err != nil {
			return err
		}
		if err := fn(out.Event); err != nil {
			return err
		}
	}
}
