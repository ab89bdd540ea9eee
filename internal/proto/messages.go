// Package proto describes the safevault.v1.AuthService gRPC contract.
//
// Messages travel as google.protobuf.Struct, so both sides share this
// package instead of generated code. Every typed message converts to and
// from its Struct form; timestamps are RFC 3339 strings and ids are numbers.
package proto

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Role     string
}

type RegisterResponse struct {
	ID       int64
	Username string
}

type LoginRequest struct {
	Username string
	Password string
}

type LoginResponse struct {
	AccessToken string
	ExpiresAt   time.Time
}

type WhoAmIRequest struct{}

type WhoAmIResponse struct {
	Username  string
	Role      string
	ExpiresAt time.Time
}

type ListUsersByRoleRequest struct {
	Role string
}

type UserInfo struct {
	ID       int64
	Username string
	Email    string
	Role     string
}

type ListUsersByRoleResponse struct {
	Users []UserInfo
}

// Message is implemented by every request and response type.
type Message interface {
	ToStruct() (*structpb.Struct, error)
}

func (m *RegisterRequest) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"username": m.Username,
		"email":    m.Email,
		"password": m.Password,
		"role":     m.Role,
	})
}

func RegisterRequestFromStruct(s *structpb.Struct) (*RegisterRequest, error) {
	return &RegisterRequest{
		Username: str(s, "username"),
		Email:    str(s, "email"),
		Password: str(s, "password"),
		Role:     str(s, "role"),
	}, nil
}

func (m *RegisterResponse) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":       m.ID,
		"username": m.Username,
	})
}

func RegisterResponseFromStruct(s *structpb.Struct) (*RegisterResponse, error) {
	return &RegisterResponse{ID: num(s, "id"), Username: str(s, "username")}, nil
}

func (m *LoginRequest) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"username": m.Username,
		"password": m.Password,
	})
}

func LoginRequestFromStruct(s *structpb.Struct) (*LoginRequest, error) {
	return &LoginRequest{Username: str(s, "username"), Password: str(s, "password")}, nil
}

func (m *LoginResponse) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"access_token": m.AccessToken,
		"expires_at":   formatTime(m.ExpiresAt),
	})
}

func LoginResponseFromStruct(s *structpb.Struct) (*LoginResponse, error) {
	exp, err := parseTime(s, "expires_at")
	if err != nil {
		return nil, err
	}
	return &LoginResponse{AccessToken: str(s, "access_token"), ExpiresAt: exp}, nil
}

func (m *WhoAmIRequest) ToStruct() (*structpb.Struct, error) {
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
}

func WhoAmIRequestFromStruct(*structpb.Struct) (*WhoAmIRequest, error) {
	return &WhoAmIRequest{}, nil
}

func (m *WhoAmIResponse) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"username":   m.Username,
		"role":       m.Role,
		"expires_at": formatTime(m.ExpiresAt),
	})
}

func WhoAmIResponseFromStruct(s *structpb.Struct) (*WhoAmIResponse, error) {
	exp, err := parseTime(s, "expires_at")
	if err != nil {
		return nil, err
	}
	return &WhoAmIResponse{Username: str(s, "username"), Role: str(s, "role"), ExpiresAt: exp}, nil
}

func (m *ListUsersByRoleRequest) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"role": m.Role})
}

func ListUsersByRoleRequestFromStruct(s *structpb.Struct) (*ListUsersByRoleRequest, error) {
	return &ListUsersByRoleRequest{Role: str(s, "role")}, nil
}

func (m *ListUsersByRoleResponse) ToStruct() (*structpb.Struct, error) {
	users := make([]any, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, map[string]any{
			"id":       u.ID,
			"username": u.Username,
			"email":    u.Email,
			"role":     u.Role,
		})
	}
	return structpb.NewStruct(map[string]any{"users": users})
}

func ListUsersByRoleResponseFromStruct(s *structpb.Struct) (*ListUsersByRoleResponse, error) {
	out := &ListUsersByRoleResponse{Users: []UserInfo{}}
	for i, v := range s.GetFields()["users"].GetListValue().GetValues() {
		u := v.GetStructValue()
		if u == nil {
			return nil, fmt.Errorf("users[%d]: not an object", i)
		}
		out.Users = append(out.Users, UserInfo{
			ID:       num(u, "id"),
			Username: str(u, "username"),
			Email:    str(u, "email"),
			Role:     str(u, "role"),
		})
	}
	return out, nil
}

func str(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func num(s *structpb.Struct, key string) int64 {
	return int64(s.GetFields()[key].GetNumberValue())
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s *structpb.Struct, key string) (time.Time, error) {
	v := str(s, key)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}
