package roulette

import (
	"context"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/grpc/interceptors"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/grpc/metadata"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/wire"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/chamber"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/item"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/history"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/storage/sqlite"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/table"
)

type harness struct {
	client *Client
	table  *table.Table
}

func startServer(t *testing.T) harness {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "matches.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := session.DefaultConfig()
	cfg.MaxHealth = 1
	engine, err := session.NewEngine(cfg, chamber.NewSequence([]chamber.Round{chamber.Live}),
		item.DealerFunc(func(item.Catalog) item.Kind { return item.Scanner }))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	tbl := table.New(engine, table.WithRecorder(store))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(metadata.UnaryServerInterceptor(nil), interceptors.ErrorUnaryInterceptor()),
		grpc.ChainStreamInterceptor(metadata.StreamServerInterceptor(nil), interceptors.ErrorStreamInterceptor()),
	)
	RegisterTableServer(server, NewService(tbl, history.New(store)))
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient(listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return harness{client: NewClient(conn), table: tbl}
}

func seatPair(t *testing.T, h harness) {
	t.Helper()
	ctx := context.Background()
	if _, created, err := h.client.CreateOrGetSession(ctx, "chat"); err != nil || !created {
		t.Fatalf("create = %v, %v", created, err)
	}
	for _, id := range []string{"a", "b"} {
		if _, err := h.client.JoinSession(ctx, "chat", id, "name-"+id); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
}

func TestFullGameOverGRPC(t *testing.T) {
	h := startServer(t)
	ctx := context.Background()
	seatPair(t, h)

	started, err := h.client.StartSession(ctx, "chat")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(started) != 2 || started[0].Kind != "game_started" || started[1].Recipient != "a" {
		t.Fatalf("start events = %+v", started)
	}

	view, err := h.client.GetSession(ctx, "chat")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Status != "playing" || view.CurrentPlayerID != "a" || view.ChamberSize != 1 {
		t.Fatalf("session = %+v", view)
	}

	res, err := h.client.Act(ctx, "chat", "a", "shoot")
	if err != nil {
		t.Fatalf("act: %v", err)
	}
	if !res.Finished || res.Events[len(res.Events)-1].Kind != "game_over" {
		t.Fatalf("act = %+v", res)
	}
	if got := res.Events[len(res.Events)-1].Text; got != "Game over. Winner: name-b" {
		t.Fatalf("game over text = %q", got)
	}

	matches, next, err := h.client.ListMatches(ctx, `winner_id = "b"`, 10, "")
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(matches) != 1 || next != "" || matches[0].SessionID != "chat" || len(matches[0].Players) != 2 {
		t.Fatalf("matches = %+v next=%q", matches, next)
	}

	_, err = h.client.GetSession(ctx, "chat")
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected finished session to be gone, got %v", err)
	}
}

func TestErrorsCarryDetails(t *testing.T) {
	h := startServer(t)
	seatPair(t, h)
	ctx := metadata.Outgoing(context.Background(), "uk-UA", "")
	if _, err := h.client.StartSession(ctx, "chat"); err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err := h.client.Act(ctx, "chat", "b", "shoot")
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.FailedPrecondition {
		t.Fatalf("expected failed precondition, got %v", err)
	}
	var reason, locale string
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			reason = d.Reason
		case *errdetails.LocalizedMessage:
			locale = d.Locale
		}
	}
	if reason != string(apperrors.CodeNotYourTurn) || locale != "uk-UA" {
		t.Fatalf("details reason=%q locale=%q", reason, locale)
	}

	if _, err := h.client.Act(ctx, "chat", "a", "dance"); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected invalid argument for unknown action, got %v", err)
	}
	if _, _, err := h.client.ListMatches(ctx, "winner_id =", 0, ""); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected invalid filter, got %v", err)
	}
}

func TestUseItemWithoutItems(t *testing.T) {
	h := startServer(t)
	seatPair(t, h)
	ctx := context.Background()
	if _, err := h.client.StartSession(ctx, "chat"); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err := h.client.Act(ctx, "chat", "a", "use_item")
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected no items error, got %v", err)
	}
}

func TestBoostAndListSessions(t *testing.T) {
	h := startServer(t)
	seatPair(t, h)
	ctx := context.Background()
	if _, err := h.client.StartSession(ctx, "chat"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := h.client.Boost(ctx, "chat", "a"); err != nil {
		t.Fatalf("boost: %v", err)
	}
	var out struct {
		Sessions []wire.Session `json:"sessions"`
	}
	if err := h.client.Call(ctx, MethodListSessions, nil, &out); err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(out.Sessions) != 1 || out.Sessions[0].BoostPlayerID != "a" {
		t.Fatalf("sessions = %+v", out.Sessions)
	}
}

func TestWatchSessionFiltersPrivateEvents(t *testing.T) {
	h := startServer(t)
	seatPair(t, h)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		mu    sync.Mutex
		kinds []string
	)
	done := make(chan error, 1)
	go func() {
		done <- h.client.Watch(ctx, "chat", "b", func(ev wire.Event) error {
			mu.Lock()
			kinds = append(kinds, ev.Kind)
			mu.Unlock()
			return nil
		})
	}()

	deadline := time.Now().Add(2 * time.Second)
	for h.table.Broker().Subscribers("chat") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("watch never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := h.client.StartSession(ctx, "chat"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.client.Act(ctx, "chat", "a", "shoot"); err != nil {
		t.Fatalf("act: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(kinds) < 3 || kinds[0] != "game_started" || kinds[len(kinds)-1] != "game_over" {
		t.Fatalf("kinds = %v", kinds)
	}
	for _, kind := range kinds {
		if kind == "turn_prompt" {
			t.Fatalf("private prompt for a leaked to b: %v", kinds)
		}
	}
}

func TestWatchUnknownSession(t *testing.T) {
	h := startServer(t)
	err := h.client.Watch(context.Background(), "missing", "a", func(wire.Event) error { return nil })
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if h.table.Broker().Subscribers("missing") != 0 {
		t.Fatal("expected subscription to be released")
	}
}
