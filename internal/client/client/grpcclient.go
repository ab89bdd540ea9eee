// Package client talks to the SafeVault AuthService over gRPC. It keeps the
// access token from the last login and attaches it to every call, and maps
// gRPC status codes to sentinel errors that keep the server's message.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/safevault/internal/common"
	pb "github.com/dmitrijs2005/safevault/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// authAPI is the part of pb.AuthServiceClient used here.
type authAPI interface {
	Register(ctx context.Context, in *pb.RegisterRequest, opts ...grpc.CallOption) (*pb.RegisterResponse, error)
	Login(ctx context.Context, in *pb.LoginRequest, opts ...grpc.CallOption) (*pb.LoginResponse, error)
	WhoAmI(ctx context.Context, in *pb.WhoAmIRequest, opts ...grpc.CallOption) (*pb.WhoAmIResponse, error)
	ListUsersByRole(ctx context.Context, in *pb.ListUsersByRoleRequest, opts ...grpc.CallOption) (*pb.ListUsersByRoleResponse, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      authAPI

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.AccessToken(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. Extra dial options are
// appended after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewAuthServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) Register(ctx context.Context, username, email, password, role string) (int64, error) {
	req := &pb.RegisterRequest{Username: username, Email: email, Password: password, Role: role}

	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.ID, nil
}

// Login authenticates and keeps the returned token for later calls.
func (s *GRPCClient) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	req := &pb.LoginRequest{Username: username, Password: password}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return "", time.Time{}, s.mapError(err)
	}

	s.SetAccessToken(resp.AccessToken)
	return resp.AccessToken, resp.ExpiresAt, nil
}

func (s *GRPCClient) WhoAmI(ctx context.Context) (*pb.WhoAmIResponse, error) {
	resp, err := s.client.WhoAmI(ctx, &pb.WhoAmIRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ListUsersByRole(ctx context.Context, role string) ([]pb.UserInfo, error) {
	resp, err := s.client.ListUsersByRole(ctx, &pb.ListUsersByRoleRequest{Role: role})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Users, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrForbidden, st.Message())
	case codes.InvalidArgument, codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
