// Package interceptors holds the gRPC middleware of the roulette server.
package interceptors

import (
	"context"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	grpcmeta "github.com/therili1/buckshot-roulette-bot/internal/services/roulette/api/grpc/metadata"
)

// ErrorUnaryInterceptor converts domain errors returned by handlers into
// gRPC statuses localized for the caller.
func ErrorUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			return nil, apperrors.HandleError(err, grpcmeta.LocaleFromContext(ctx))
		}
		return resp, nil
	}
}

// ErrorStreamInterceptor is ErrorUnaryInterceptor for streams.
func ErrorStreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if err := handler(srv, stream); err != nil {
			return apperrors.HandleError(err, grpcmeta.LocaleFromContext(stream.Context()))
		}
		return nil
	}
}

// LoggingUnaryInterceptor logs failed calls with their request id. Successful
// calls are not logged.
func LoggingUnaryInterceptor(logf func(format string, args ...any)) grpc.UnaryServerInterceptor {
	if logf == nil {
		logf = log.Printf
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			code := codes.Unknown
			if st, ok := status.FromError(err); ok {
				code = st.Code()
			}
			logf("grpc %s request=%s code=%s duration=%s: %v",
				info.FullMethod, grpcmeta.RequestIDFromContext(ctx), code, time.Since(start).Round(time.Microsecond), err)
		}
		return resp, err
	}
}
