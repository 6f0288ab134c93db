package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the feedback service.
const ServiceName = "gophfeedback.v1.FeedbackService"

// FeedbackServiceServer is the server API of the feedback service. Requests
// and responses are google.protobuf.Struct documents.
type FeedbackServiceServer interface {
	AddEntry(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateEntry(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetEntriesForSite(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetEntriesForPage(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetResponsible(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Archive(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Delete(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type method func(FeedbackServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, m method) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return m(srv.(FeedbackServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return m(srv.(FeedbackServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes FeedbackService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FeedbackServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("AddEntry", FeedbackServiceServer.AddEntry),
		unary("UpdateEntry", FeedbackServiceServer.UpdateEntry),
		unary("GetEntriesForSite", FeedbackServiceServer.GetEntriesForSite),
		unary("GetEntriesForPage", FeedbackServiceServer.GetEntriesForPage),
		unary("GetUsers", FeedbackServiceServer.GetUsers),
		unary("SetStatus", FeedbackServiceServer.SetStatus),
		unary("SetResponsible", FeedbackServiceServer.SetResponsible),
		unary("Archive", FeedbackServiceServer.Archive),
		unary("Delete", FeedbackServiceServer.Delete),
		unary("Ping", FeedbackServiceServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophfeedback/v1/feedback.proto",
}

// Client calls FeedbackService over an established connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with a request built from fields.
func (c *Client) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
