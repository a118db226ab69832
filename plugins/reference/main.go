package main

import (
	"context"

	connectorrpc "roidash/internal/modules/integration/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *connectorrpc.Empty) (*connectorrpc.Metadata, error) {
	return &connectorrpc.Metadata{Name: "reference", Version: "1.0.0"}, nil
}

var platforms = map[string][]connectorrpc.Platform{
	"finance": {
		{ID: "netsuite", Name: "NetSuite", Description: "General ledger, forecasts, close timelines", MetricsCount: 4, Recommended: true},
	},
	"operations": {
		{ID: "servicenow", Name: "ServiceNow", Description: "Workflow cycle times, incident throughput", MetricsCount: 4, Recommended: true},
	},
	"customer_service": {
		{ID: "freshdesk", Name: "Freshdesk", Description: "Ticket queues, agent response times", MetricsCount: 3},
	},
}

func (s *server) ListPlatforms(_ context.Context, in *connectorrpc.ListPlatformsRequest) (*connectorrpc.ListPlatformsResponse, error) {
	return &connectorrpc.ListPlatformsResponse{Platforms: append([]connectorrpc.Platform{}, platforms[in.UseCase]...)}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: connectorrpc.HandshakeConfig,
		Plugins:         connectorrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
