package queryrpc

import (
	"context"

	"github.com/otelscope/otelscope/internal/grpcserver"
	"github.com/otelscope/otelscope/internal/query"
	"github.com/otelscope/otelscope/internal/sqlengine"
	"github.com/otelscope/otelscope/internal/store"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CodecOption forces the server to decode every query RPC with the JSON
// codec, regardless of the client's negotiated content-subtype.
func CodecOption() grpcserver.ServerOption {
	return grpcserver.WithServerOptions(grpc.ForceServerCodec(jsonCodec{}))
}

// ServiceName is the gRPC-routable name of the query protocol.
const ServiceName = "otelscope.query.v1.QueryService"

// Server bridges the hand-declared QueryService RPCs to internal/query.
type Server struct {
	svc *query.Service
}

// NewServer wraps svc for gRPC serving.
func NewServer(svc *query.Service) *Server {
	return &Server{svc: svc}
}

// ServiceDesc declares the QueryService methods by hand: there is no
// published .proto for this collector-internal protocol, so grpc's usual
// protoc-generated registration is replaced with a literal
// grpc.ServiceDesc over the JSON-coded message structs in messages.go.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Query", Handler: _Query_Handler},
		{MethodName: "Clear", Handler: _Clear_Handler},
		{MethodName: "Schema", Handler: _Schema_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Follow", Handler: _Follow_Handler, ServerStreams: true},
	},
	Metadata: "otelscope/queryrpc",
}

// Register wires the query service onto srv.
func Register(srv *grpcserver.Server, svc *query.Service) {
	srv.RegisterService(&ServiceDesc, NewServer(svc))
}

func _Query_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(QueryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	s := srv.(*Server)
	if interceptor == nil {
		return s.query(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: "/" + ServiceName + "/Query"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.query(ctx, req.(*QueryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func (s *Server) query(ctx context.Context, in *QueryRequest) (*QueryResponse, error) {
	result, err := s.svc.Query(ctx, in.SQL)
	if err != nil {
		return nil, toStatus(err)
	}
	return resultToResponse(result), nil
}

func _Clear_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ClearRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	s := srv.(*Server)
	if interceptor == nil {
		return s.clear(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: "/" + ServiceName + "/Clear"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.clear(ctx, req.(*ClearRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func (s *Server) clear(ctx context.Context, in *ClearRequest) (*ClearResponse, error) {
	kinds := make([]store.Kind, 0, len(in.Tables))
	for _, t := range in.Tables {
		kinds = append(kinds, store.Kind(t))
	}
	if len(kinds) == 0 {
		kinds = store.AllKinds()
	}
	counts, err := s.svc.Clear(ctx, kinds)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[string(k)] = v
	}
	return &ClearResponse{Counts: out}, nil
}

func _Schema_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(struct{})
	if err := dec(in); err != nil {
		return nil, err
	}
	s := srv.(*Server)
	if interceptor == nil {
		return s.schema(ctx), nil
	}
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: "/" + ServiceName + "/Schema"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.schema(ctx), nil
	}
	return interceptor(ctx, in, info, handler)
}

func (s *Server) schema(context.Context) *SchemaResponse {
	tables := s.svc.Schema()
	out := make(map[string][]ColumnInfo, len(tables))
	for name, schema := range tables {
		cols := make([]ColumnInfo, len(schema.Columns))
		for i, c := range schema.Columns {
			cols[i] = ColumnInfo{Name: c.Name, Type: c.Type.String()}
		}
		out[name] = cols
	}
	return &SchemaResponse{Tables: out}
}

func _Follow_Handler(srv interface{}, stream grpc.ServerStream) error {
	s := srv.(*Server)
	in := new(FollowRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	mode := query.ModeNewSpansOnly
	if in.Mode == "full_group" {
		mode = query.ModeFullGroup
	}

	frames, err := s.svc.Follow(stream.Context(), in.SQL, mode)
	if err != nil {
		return toStatus(err)
	}

	for frame := range frames {
		if frame.Err != nil {
			if frame.Err == query.ErrLagged {
				return status.Error(codes.ResourceExhausted, "lagged")
			}
			return toStatus(frame.Err)
		}
		out := &FollowFrame{Table: frame.Result.Table, Columns: frame.Result.Columns}
		if frame.Kind == query.FrameSnapshot {
			out.Kind = "snapshot"
		} else {
			out.Kind = "delta"
		}
		resp := resultToResponse(frame.Result)
		out.Rows = resp.Rows
		if err := stream.SendMsg(out); err != nil {
			return err
		}
	}
	return nil
}

// toStatus maps a sqlengine/query error to a gRPC status: parse and
// validation errors become InvalidArgument, anything else Internal. A
// lagged Follow stream is reported as ResourceExhausted by Follow itself.
func toStatus(err error) error {
	switch err.(type) {
	case *sqlengine.ParseError, *sqlengine.ValidationError:
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
