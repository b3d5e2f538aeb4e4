package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service speaks protobuf well-known types only, so it needs no
// generated code. Request and response fields are documented on each method
// of ScriptureServiceServer.

const (
	ServiceName = "dailyword.ScriptureService"

	ListVersionsMethod        = "/" + ServiceName + "/ListVersions"
	GetVersionInfoMethod      = "/" + ServiceName + "/GetVersionInfo"
	GetPassageMethod          = "/" + ServiceName + "/GetPassage"
	GetDailyPassageMethod     = "/" + ServiceName + "/GetDailyPassage"
	FetchPassageMethod        = "/" + ServiceName + "/FetchPassage"
	SetPreferredVersionMethod = "/" + ServiceName + "/SetPreferredVersion"
)

type ScriptureServiceServer interface {
	// ListVersions returns {"versions": [{"id","code","title"}], "default": code}.
	ListVersions(context.Context, *emptypb.Empty) (*structpb.Struct, error)

	// GetVersionInfo takes a version code and returns {"code","name"}.
	GetVersionInfo(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)

	// GetPassage takes {"reading_id", "version"?} and returns
	// {"reading_id","reference","title","version","content"}.
	GetPassage(context.Context, *structpb.Struct) (*structpb.Struct, error)

	// GetDailyPassage takes {"date"? (YYYY-MM-DD), "version"?} and answers
	// like GetPassage.
	GetDailyPassage(context.Context, *structpb.Struct) (*structpb.Struct, error)

	// FetchPassage takes {"reference", "version"?} and returns
	// {"reference","version","content"} without caching.
	FetchPassage(context.Context, *structpb.Struct) (*structpb.Struct, error)

	// SetPreferredVersion takes a version code and returns {"id","code","title"}.
	// It requires an authenticated user.
	SetPreferredVersion(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

func unaryHandler[Req proto.Message](method string, newReq func() Req,
	call func(ScriptureServiceServer, context.Context, Req) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ScriptureServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ScriptureServiceServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ScriptureServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScriptureServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListVersions",
			Handler:    unaryHandler(ListVersionsMethod, newEmpty, ScriptureServiceServer.ListVersions),
		},
		{
			MethodName: "GetVersionInfo",
			Handler:    unaryHandler(GetVersionInfoMethod, newString, ScriptureServiceServer.GetVersionInfo),
		},
		{
			MethodName: "GetPassage",
			Handler:    unaryHandler(GetPassageMethod, newStruct, ScriptureServiceServer.GetPassage),
		},
		{
			MethodName: "GetDailyPassage",
			Handler:    unaryHandler(GetDailyPassageMethod, newStruct, ScriptureServiceServer.GetDailyPassage),
		},
		{
			MethodName: "FetchPassage",
			Handler:    unaryHandler(FetchPassageMethod, newStruct, ScriptureServiceServer.FetchPassage),
		},
		{
			MethodName: "SetPreferredVersion",
			Handler:    unaryHandler(SetPreferredVersionMethod, newString, ScriptureServiceServer.SetPreferredVersion),
		},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterScriptureServiceServer(s grpc.ServiceRegistrar, srv ScriptureServiceServer) {
	s.RegisterService(&ScriptureServiceDesc, srv)
}

func newEmpty() *emptypb.Empty          { return new(emptypb.Empty) }
func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }
func newStruct() *structpb.Struct        { return new(structpb.Struct) }

// ScriptureServiceClient calls a ScriptureService over cc.
type ScriptureServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewScriptureServiceClient(cc grpc.ClientConnInterface) *ScriptureServiceClient {
	return &ScriptureServiceClient{cc: cc}
}

func (c *ScriptureServiceClient) invoke(ctx context.Context, method string, in proto.Message, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ScriptureServiceClient) ListVersions(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ListVersionsMethod, &emptypb.Empty{}, opts...)
}

func (c *ScriptureServiceClient) GetVersionInfo(ctx context.Context, code string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetVersionInfoMethod, wrapperspb.String(code), opts...)
}

func (c *ScriptureServiceClient) GetPassage(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetPassageMethod, in, opts...)
}

func (c *ScriptureServiceClient) GetDailyPassage(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetDailyPassageMethod, in, opts...)
}

func (c *ScriptureServiceClient) FetchPassage(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FetchPassageMethod, in, opts...)
}

func (c *ScriptureServiceClient) SetPreferredVersion(ctx context.Context, code string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SetPreferredVersionMethod, wrapperspb.String(code), opts...)
}
