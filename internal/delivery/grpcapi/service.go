package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "raffle.v1.OperationsService"

// OperationsServer is the operator API. Messages are protobuf well-known
// types, so the service needs no generated code.
type OperationsServer interface {
	Sweep(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error)
	ReplayNotification(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	CancelOrder(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
}

func RegisterOperationsServer(s grpc.ServiceRegistrar, srv OperationsServer) {
	s.RegisterService(&OperationsServiceDesc, srv)
}

var OperationsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OperationsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Sweep", Handler: sweepHandler},
		{MethodName: "ReplayNotification", Handler: replayHandler},
		{MethodName: "CancelOrder", Handler: cancelOrderHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "raffle/v1/operations.proto",
}

func sweepHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OperationsServer).Sweep(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Sweep"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OperationsServer).Sweep(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func replayHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OperationsServer).ReplayNotification(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ReplayNotification"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OperationsServer).ReplayNotification(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func cancelOrderHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OperationsServer).CancelOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/CancelOrder"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OperationsServer).CancelOrder(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// OperationsClient is the client side of OperationsServer.
type OperationsClient struct {
	cc grpc.ClientConnInterface
}

func NewOperationsClient(cc grpc.ClientConnInterface) *OperationsClient {
	return &OperationsClient{cc: cc}
}

func (c *OperationsClient) Sweep(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Sweep", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *OperationsClient) ReplayNotification(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/ReplayNotification", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *OperationsClient) CancelOrder(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/CancelOrder", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
