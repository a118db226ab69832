// Package rpc is the wire contract between roidash and connector binaries:
// a gRPC service carrying JSON payloads, served through go-plugin.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey        = "connector"
	serviceName         = "roidash.connector.v1.Connector"
	jsonCodecName       = "json"
	methodGetMetadata   = "/" + serviceName + "/GetMetadata"
	methodListPlatforms = "/" + serviceName + "/ListPlatforms"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "ROIDASH_CONNECTOR",
	MagicCookieValue: "roidash",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ListPlatformsRequest struct {
	UseCase string `json:"use_case"`
}

type Platform struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	MetricsCount int32  `json:"metrics_count"`
	Recommended  bool   `json:"recommended"`
}

type ListPlatformsResponse struct {
	Platforms []Platform `json:"platforms"`
}

type ConnectorServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	ListPlatforms(ctx context.Context, in *ListPlatformsRequest) (*ListPlatformsResponse, error)
}

type ConnectorClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	ListPlatforms(ctx context.Context, in *ListPlatformsRequest) (*ListPlatformsResponse, error)
}

type connectorClient struct {
	conn *grpc.ClientConn
}

func NewConnectorClient(conn *grpc.ClientConn) ConnectorClient {
	return &connectorClient{conn: conn}
}

func (c *connectorClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *connectorClient) ListPlatforms(ctx context.Context, in *ListPlatformsRequest) (*ListPlatformsResponse, error) {
	out := &ListPlatformsResponse{}
	if err := c.conn.Invoke(ctx, methodListPlatforms, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// unaryHandler adapts a typed server method to grpc.MethodDesc.
func unaryHandler[Req any, Resp any](fullMethod string, call func(context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterConnectorServer(server grpc.ServiceRegistrar, impl ConnectorServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*ConnectorServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "GetMetadata", Handler: unaryHandler(methodGetMetadata, impl.GetMetadata)},
			{MethodName: "ListPlatforms", Handler: unaryHandler(methodListPlatforms, impl.ListPlatforms)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/connector-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl ConnectorServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterConnectorServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewConnectorClient(conn), nil
}

func PluginMap(impl ConnectorServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
