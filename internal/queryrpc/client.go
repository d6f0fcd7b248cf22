package queryrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client is a thin gRPC client for the query protocol, used by the CLI's
// one-shot `otelscope query` subcommand.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to a running instance's query gRPC port.
func Dial(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{})),
	)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) Query(ctx context.Context, sql string) (*QueryResponse, error) {
	out := new(QueryResponse)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/Query", &QueryRequest{SQL: sql}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Clear(ctx context.Context, tables []string) (*ClearResponse, error) {
	out := new(ClearResponse)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/Clear", &ClearRequest{Tables: tables}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Schema(ctx context.Context) (*SchemaResponse, error) {
	out := new(SchemaResponse)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/Schema", &struct{}{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Follow opens a streaming Follow call and returns the frames on a channel,
// closed when the stream ends or ctx is canceled.
func (c *Client) Follow(ctx context.Context, sql, mode string) (<-chan *FollowFrame, error) {
	desc := &grpc.StreamDesc{StreamName: "Follow", ServerStreams: true}
	stream, err := c.conn.NewStream(ctx, desc, "/"+ServiceName+"/Follow")
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&FollowRequest{SQL: sql, Mode: mode}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}

	out := make(chan *FollowFrame)
	go func() {
		defer close(out)
		for {
			frame := new(FollowFrame)
			if err := stream.RecvMsg(frame); err != nil {
				return
			}
			select {
			case out <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
