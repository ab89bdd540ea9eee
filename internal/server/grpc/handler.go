package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/safevault/internal/common"
	pb "github.com/dmitrijs2005/safevault/internal/proto"
	"github.com/dmitrijs2005/safevault/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const invalidCredentials = "invalid username or password"

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = common.DefaultRole
	}

	user, err := s.users.Register(ctx, services.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorMissingField),
			errors.Is(err, common.ErrorWeakPassword),
			errors.Is(err, common.ErrorPasswordTooLong),
			errors.Is(err, common.ErrorFieldTooLong):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		case errors.Is(err, common.ErrorUsernameTaken),
			errors.Is(err, common.ErrorEmailTaken):
			return nil, status.Error(codes.AlreadyExists, err.Error())
		}
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &pb.RegisterResponse{ID: user.ID, Username: user.UserName}, nil
}

// Login never says whether the username exists; only a locked account gets
// a distinct message, the retry hint.
func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	token, err := s.users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		var locked *services.LockoutError
		switch {
		case errors.As(err, &locked):
			return nil, status.Error(codes.Unauthenticated, locked.Error())
		case errors.Is(err, common.ErrorUnauthorized):
			return nil, status.Error(codes.Unauthenticated, invalidCredentials)
		}
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &pb.LoginResponse{AccessToken: token.Value, ExpiresAt: token.ExpiresAt}, nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *pb.WhoAmIRequest) (*pb.WhoAmIResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	resp := &pb.WhoAmIResponse{Username: claims.Subject, Role: claims.Role}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	return resp, nil
}

func (s *GRPCServer) ListUsersByRole(ctx context.Context, req *pb.ListUsersByRoleRequest) (*pb.ListUsersByRoleResponse, error) {
	role := strings.TrimSpace(req.Role)
	if role == "" {
		return nil, status.Error(codes.InvalidArgument, "role is required")
	}

	users, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	resp := &pb.ListUsersByRoleResponse{Users: make([]pb.UserInfo, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, pb.UserInfo{ID: u.ID, Username: u.UserName, Email: u.Email, Role: u.Role})
	}
	return resp, nil
}
