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
	PluginMapKey              = "narrator"
	serviceName               = "taskquest.narrator.v1.Narrator"
	jsonCodecName             = "json"
	methodCreatePersona       = "/" + serviceName + "/CreatePersona"
	methodCreateTaskNarrative = "/" + serviceName + "/CreateTaskNarrative"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "TASKQUEST_NARRATOR",
	MagicCookieValue: "taskquest",
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

type Persona struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type NarrativeRequest struct {
	Description string  `json:"description"`
	Persona     Persona `json:"persona"`
}

type NarrativeResponse struct {
	Story  string      `json:"story"`
	Points json.Number `json:"points"`
}

type NarratorServer interface {
	CreatePersona(ctx context.Context, in *Empty) (*Persona, error)
	CreateTaskNarrative(ctx context.Context, in *NarrativeRequest) (*NarrativeResponse, error)
}

type NarratorClient interface {
	CreatePersona(ctx context.Context) (*Persona, error)
	CreateTaskNarrative(ctx context.Context, in *NarrativeRequest) (*NarrativeResponse, error)
}

type narratorClient struct {
	conn *grpc.ClientConn
}

func NewNarratorClient(conn *grpc.ClientConn) NarratorClient {
	return &narratorClient{conn: conn}
}

func (c *narratorClient) CreatePersona(ctx context.Context) (*Persona, error) {
	out := &Persona{}
	if err := c.conn.Invoke(ctx, methodCreatePersona, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *narratorClient) CreateTaskNarrative(ctx context.Context, in *NarrativeRequest) (*NarrativeResponse, error) {
	out := &NarrativeResponse{}
	if err := c.conn.Invoke(ctx, methodCreateTaskNarrative, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterNarratorServer(server grpc.ServiceRegistrar, impl NarratorServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*NarratorServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "CreatePersona",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.CreatePersona(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodCreatePersona}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.CreatePersona(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "CreateTaskNarrative",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &NarrativeRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.CreateTaskNarrative(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodCreateTaskNarrative}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*NarrativeRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.CreateTaskNarrative(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "taskquest/narrator/v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl NarratorServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterNarratorServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewNarratorClient(conn), nil
}

func PluginMap(impl NarratorServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
