// Package metadata defines the request headers shared by roulette gRPC
// callers and the interceptor that stamps them onto every call.
package metadata

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const (
	// RequestIDHeader carries the correlation id of a call.
	RequestIDHeader = "x-buckshot-request-id"
	// LocaleHeader selects the language of user-facing messages.
	LocaleHeader = "x-buckshot-locale"
	// PlayerIDHeader identifies the calling player for streamed private events.
	PlayerIDHeader = "x-buckshot-player-id"
)

type contextKey string

const (
	requestIDKey contextKey = "buckshot-request-id"
	localeKey    contextKey = "buckshot-locale"
)

// RequestIDFromContext returns the request id stored by the interceptor.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

// LocaleFromContext returns the caller's locale, or "" when none was sent.
func LocaleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(localeKey).(string)
	return value
}

// PlayerIDFromContext returns the player id header of an incoming call.
func PlayerIDFromContext(ctx context.Context) string {
	md, _ := metadata.FromIncomingContext(ctx)
	return FirstMetadataValue(md, PlayerIDHeader)
}

// WithRequestID stores a request id in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithLocale stores a locale in ctx.
func WithLocale(ctx context.Context, locale string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, localeKey, locale)
}

// IsPrintableASCII reports whether value is non-empty printable ASCII.
func IsPrintableASCII(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}

// FirstMetadataValue returns the first printable value for key, matching the
// key case-insensitively.
func FirstMetadataValue(md metadata.MD, key string) string {
	for mdKey, values := range md {
		if !strings.EqualFold(mdKey, key) {
			continue
		}
		for _, value := range values {
			if IsPrintableASCII(value) {
				return value
			}
		}
	}
	return ""
}

// Outgoing returns ctx carrying locale and player headers for a client call.
// Empty values are omitted.
func Outgoing(ctx context.Context, locale, playerID string) context.Context {
	var pairs []string
	if locale != "" {
		pairs = append(pairs, LocaleHeader, locale)
	}
	if playerID != "" {
		pairs = append(pairs, PlayerIDHeader, playerID)
	}
	if len(pairs) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}

func ensure(ctx context.Context, newID func() string) (context.Context, string) {
	md, _ := metadata.FromIncomingContext(ctx)
	requestID := FirstMetadataValue(md, RequestIDHeader)
	if requestID == "" {
		requestID = newID()
	}
	ctx = WithRequestID(ctx, requestID)
	ctx = WithLocale(ctx, FirstMetadataValue(md, LocaleHeader))

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("request.id", requestID))
	return ctx, requestID
}

// UnaryServerInterceptor gives every unary call a request id (reusing the
// caller's when sent), echoes it as a response header and records the
// caller's locale in the context.
func UnaryServerInterceptor(newID func() string) grpc.UnaryServerInterceptor {
	if newID == nil {
		newID = uuid.NewString
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, requestID := ensure(ctx, newID)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))
		return handler(ctx, req)
	}
}

// StreamServerInterceptor is UnaryServerInterceptor for streams.
func StreamServerInterceptor(newID func() string) grpc.StreamServerInterceptor {
	if newID == nil {
		newID = uuid.NewString
	}
	return func(srv any, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, requestID := ensure(stream.Context(), newID)
		_ = stream.SetHeader(metadata.Pairs(RequestIDHeader, requestID))
		return handler(srv, &wrappedStream{ServerStream: stream, ctx: ctx})
	}
}

type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}
