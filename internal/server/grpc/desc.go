package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/skdtracker/internal/api"
)

// dashboardService is the handler type checked by RegisterService.
type dashboardService interface {
	ping(ctx context.Context, req *api.Empty) (*api.PingResponse, error)
	login(ctx context.Context, req *api.LoginRequest) (*api.SessionResponse, error)
}

// unary adapts a typed handler method to a grpc.MethodDesc.
func unary[Req, Resp any](method string, call func(s *GRPCServer, ctx context.Context, req *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(*GRPCServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: api.FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: api.ServiceName,
	HandlerType: (*dashboardService)(nil),
	Methods: []grpc.MethodDesc{
		unary(api.MethodPing, (*GRPCServer).ping),
		unary(api.MethodRegister, (*GRPCServer).register),
		unary(api.MethodLogin, (*GRPCServer).login),
		unary(api.MethodWhoAmI, (*GRPCServer).whoAmI),
		unary(api.MethodRequestLogout, (*GRPCServer).requestLogout),
		unary(api.MethodConfirmLogout, (*GRPCServer).confirmLogout),
		unary(api.MethodCancelLogout, (*GRPCServer).cancelLogout),
		unary(api.MethodChangePassword, (*GRPCServer).changePassword),
		unary(api.MethodSubmitAttempt, (*GRPCServer).submitAttempt),
		unary(api.MethodEditAttempt, (*GRPCServer).editAttempt),
		unary(api.MethodDeleteAttempt, (*GRPCServer).deleteAttempt),
		unary(api.MethodListAttempts, (*GRPCServer).listAttempts),
		unary(api.MethodListAccounts, (*GRPCServer).listAccounts),
		unary(api.MethodSetRole, (*GRPCServer).setRole),
		unary(api.MethodSetPassword, (*GRPCServer).setPassword),
		unary(api.MethodDeleteAccount, (*GRPCServer).deleteAccount),
		unary(api.MethodBulkDeleteAttempts, (*GRPCServer).bulkDeleteAttempts),
		unary(api.MethodRequestReset, (*GRPCServer).requestReset),
		unary(api.MethodConfirmReset, (*GRPCServer).confirmReset),
		unary(api.MethodCancelReset, (*GRPCServer).cancelReset),
		unary(api.MethodExport, (*GRPCServer).export),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "skd/dashboard",
}
