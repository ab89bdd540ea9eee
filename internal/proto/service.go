package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "safevault.v1.AuthService"

// Full method names, as seen by interceptors.
const (
	AuthService_Register_FullMethodName        = "/" + ServiceName + "/Register"
	AuthService_Login_FullMethodName           = "/" + ServiceName + "/Login"
	AuthService_WhoAmI_FullMethodName          = "/" + ServiceName + "/WhoAmI"
	AuthService_ListUsersByRole_FullMethodName = "/" + ServiceName + "/ListUsersByRole"
)

// AuthServiceServer is the server API for AuthService.
type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	WhoAmI(context.Context, *WhoAmIRequest) (*WhoAmIResponse, error)
	ListUsersByRole(context.Context, *ListUsersByRoleRequest) (*ListUsersByRoleResponse, error)
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

// unary adapts a typed method to grpc.MethodHandler. Interceptors see the
// typed request and response; only the wire form is a Struct.
func unary[Req any, Resp Message](
	fullMethod string,
	decode func(*structpb.Struct) (*Req, error),
	call func(AuthServiceServer, context.Context, *Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		req, err := decode(in)
		if err != nil {
			return nil, err
		}

		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}

		var out any
		if interceptor == nil {
			out, err = handler(ctx, req)
		} else {
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			out, err = interceptor(ctx, req, info, handler)
		}
		if err != nil {
			return nil, err
		}
		return out.(Message).ToStruct()
	}
}

var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler: unary(AuthService_Register_FullMethodName, RegisterRequestFromStruct,
				AuthServiceServer.Register),
		},
		{
			MethodName: "Login",
			Handler: unary(AuthService_Login_FullMethodName, LoginRequestFromStruct,
				AuthServiceServer.Login),
		},
		{
			MethodName: "WhoAmI",
			Handler: unary(AuthService_WhoAmI_FullMethodName, WhoAmIRequestFromStruct,
				AuthServiceServer.WhoAmI),
		},
		{
			MethodName: "ListUsersByRole",
			Handler: unary(AuthService_ListUsersByRole_FullMethodName, ListUsersByRoleRequestFromStruct,
				AuthServiceServer.ListUsersByRole),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "safevault/v1/auth.proto",
}

// AuthServiceClient is the client API for AuthService.
type AuthServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) *AuthServiceClient {
	return &AuthServiceClient{cc: cc}
}

func invoke[Resp any](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	in Message,
	decode func(*structpb.Struct) (*Resp, error),
	opts ...grpc.CallOption,
) (*Resp, error) {
	req, err := in.ToStruct()
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return decode(out)
}

func (c *AuthServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke(ctx, c.cc, AuthService_Register_FullMethodName, in, RegisterResponseFromStruct, opts...)
}

func (c *AuthServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke(ctx, c.cc, AuthService_Login_FullMethodName, in, LoginResponseFromStruct, opts...)
}

func (c *AuthServiceClient) WhoAmI(ctx context.Context, in *WhoAmIRequest, opts ...grpc.CallOption) (*WhoAmIResponse, error) {
	return invoke(ctx, c.cc, AuthService_WhoAmI_FullMethodName, in, WhoAmIResponseFromStruct, opts...)
}

func (c *AuthServiceClient) ListUsersByRole(ctx context.Context, in *ListUsersByRoleRequest, opts ...grpc.CallOption) (*ListUsersByRoleResponse, error) {
	return invoke(ctx, c.cc, AuthService_ListUsersByRole_FullMethodName, in, ListUsersByRoleResponseFromStruct, opts...)
}
