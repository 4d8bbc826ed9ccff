// Package roulette serves the roulette.v1.TableService gRPC API.
//
// Messages are google.protobuf.Struct values whose fields follow the JSON
// shapes in the wire package, so the service is registered from a
// hand-written descriptor instead of generated stubs.
package roulette

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "roulette.v1.TableService"

// Method names.
const (
	MethodCreateOrGetSession = "CreateOrGetSession"
	MethodJoinSession        = "JoinSession"
	MethodStartSession       = "StartSession"
	MethodAct                = "Act"
	MethodBoost              = "Boost"
	MethodGetSession         = "GetSession"
	MethodListSessions       = "ListSessions"
	MethodListMatches        = "ListMatches"
	MethodGetMatch           = "GetMatch"
	MethodWatchSession       = "WatchSession"
)

// TableServer is the server API for TableService.
type TableServer interface {
	CreateOrGetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	JoinSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Act(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Boost(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSessions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMatches(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchSession(*structpb.Struct, grpc.ServerStreamingServer[structpb.Struct]) error
}

type unaryMethod func(TableServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary(method string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(TableServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(TableServer).WatchSession(in, &grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}

// TableServiceDesc describes TableService for grpc.Server registration.
var TableServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TableServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodCreateOrGetSession, TableServer.CreateOrGetSession),
		unary(MethodJoinSession, TableServer.JoinSession),
		unary(MethodStartSession, TableServer.StartSession),
		unary(MethodAct, TableServer.Act),
		unary(MethodBoost, TableServer.Boost),
		unary(MethodGetSession, TableServer.GetSession),
		unary(MethodListSessions, TableServer.ListSessions),
		unary(MethodListMatches, TableServer.ListMatches),
		unary(MethodGetMatch, TableServer.GetMatch),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    MethodWatchSession,
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
}

// RegisterTableServer registers srv on s.
func RegisterTableServer(s grpc.ServiceRegistrar, srv TableServer) {
	s.RegisterService(&TableServiceDesc, srv)
}
