package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	connectorrpc "roidash/internal/modules/integration/adapter/out/rpc"
	"roidash/internal/modules/integration/domain"
	integrationout "roidash/internal/modules/integration/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCHost launches a connector binary per call and talks to it over gRPC.
type GRPCHost struct {
	logger hclog.Logger
}

// NewGRPCHost builds a host. A nil logger discards go-plugin output.
func NewGRPCHost(logger hclog.Logger) integrationout.ConnectorHost {
	if logger == nil {
		logger = hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel})
	}
	return &GRPCHost{logger: logger}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, h.callError("get metadata", callCtx, manifest, err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version}, nil
}

func (h *GRPCHost) ListPlatforms(ctx context.Context, manifest domain.Manifest, useCase string) ([]domain.Platform, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	response, err := client.ListPlatforms(callCtx, &connectorrpc.ListPlatformsRequest{UseCase: useCase})
	if err != nil {
		return nil, h.callError("list platforms", callCtx, manifest, err)
	}
	out := make([]domain.Platform, 0, len(response.Platforms))
	for _, p := range response.Platforms {
		out = append(out, domain.Platform{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			MetricsCount: int(p.MetricsCount),
			Recommended:  p.Recommended,
		})
	}
	return out, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (connectorrpc.ConnectorClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  connectorrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          connectorrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start connector client: %w", err)
	}
	raw, err := rpcClient.Dispense(connectorrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense connector: %w", err)
	}
	typed, ok := raw.(connectorrpc.ConnectorClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("connector rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, defaultCallTimeout)
}

func (h *GRPCHost) callError(op string, callCtx context.Context, manifest domain.Manifest, err error) error {
	if callCtx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %s %s", domain.ErrConnectorTimeout, manifest.Name, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
