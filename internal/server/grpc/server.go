// Package grpc exposes UserService over gRPC as safevault.v1.AuthService,
// together with the standard health service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/safevault/internal/logging"
	pb "github.com/dmitrijs2005/safevault/internal/proto"
	"github.com/dmitrijs2005/safevault/internal/server/auth"
	"github.com/dmitrijs2005/safevault/internal/server/models"
	"github.com/dmitrijs2005/safevault/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type userSvc interface {
	Authenticate(ctx context.Context, username, password string) (*auth.Token, error)
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
}

type tokenParser interface {
	Parse(value string) (*auth.Claims, error)
}

type GRPCServer struct {
	address string
	users   userSvc
	tokens  tokenParser
	logger  logging.Logger
	health  *health.Server
}

func NewGRPCServer(a string, l logging.Logger, us userSvc, tokens tokenParser) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		tokens:  tokens,
		health:  health.NewServer(),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestLogInterceptor, s.accessTokenInterceptor))
	pb.RegisterAuthServiceServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	return srv
}

// Run serves until ctx is cancelled, then drains in-flight calls.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()
	s.health.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
