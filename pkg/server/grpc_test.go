package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
)

const boomMethod = "/test.Panicker/Boom"

var panickerDesc = grpc.ServiceDesc{
	ServiceName: "test.Panicker",
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "Boom",
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(emptypb.Empty)
			if err := dec(in); err != nil {
				return nil, err
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: boomMethod}
			return interceptor(ctx, in, info, func(context.Context, any) (any, error) {
				panic("boom")
			})
		},
	}},
}

func dial(t *testing.T, srv *grpc.Server) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestNewGRPCServer_Services(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	withReflection := NewGRPCServer(logger, true)
	defer withReflection.Stop()
	withoutReflection := NewGRPCServer(logger, false)
	defer withoutReflection.Stop()

	assert.Contains(t, withReflection.GetServiceInfo(), "grpc.reflection.v1.ServerReflection")
	assert.Contains(t, withoutReflection.GetServiceInfo(), "grpc.health.v1.Health")
	assert.NotContains(t, withoutReflection.GetServiceInfo(), "grpc.reflection.v1.ServerReflection")
}

func TestNewGRPCServer_HealthServing(t *testing.T) {
	conn := dial(t, NewGRPCServer(slog.New(slog.NewTextHandler(io.Discard, nil)), false))

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})

	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestNewGRPCServer_RecoversPanics(t *testing.T) {
	// given
	srv := NewGRPCServer(slog.New(slog.NewTextHandler(io.Discard, nil)), false, func(s *grpc.Server) {
		s.RegisterService(&panickerDesc, struct{}{})
	})
	conn := dial(t, srv)

	// when
	err := conn.Invoke(context.Background(), boomMethod, &emptypb.Empty{}, &emptypb.Empty{})

	// then
	assert.Equal(t, codes.Internal, status.Code(err))

	// and the server keeps serving
	_, err = healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	assert.NoError(t, err)
}
