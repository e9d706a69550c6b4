// Package docker implements the container engine adapter using the Docker API.
package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"

	"github.com/bnema/gateway-core/internal/boundaries/out"
	"github.com/bnema/gateway-core/internal/domain"
)

// Config holds what the Docker adapter needs from the process configuration.
type Config struct {
	Socket      string
	Network     domain.NetworkConfig
	Whitelist   []string
	CallTimeout time.Duration
}

// Runtime implements out.ContainerEngine using the Docker API.
type Runtime struct {
	client      *client.Client
	socket      string
	network     domain.NetworkConfig
	whitelist   map[string]struct{}
	callTimeout time.Duration
}

var _ out.ContainerEngine = (*Runtime)(nil)

// NewRuntime creates a Docker runtime talking to the configured socket.
func NewRuntime(cfg Config) (*Runtime, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if cfg.Socket != "" {
		opts = append(opts, client.WithHost(cfg.Socket))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return NewRuntimeWithClient(cli, cfg), nil
}

// NewRuntimeWithClient creates a Docker runtime with a custom client (for testing).
func NewRuntimeWithClient(cli *client.Client, cfg Config) *Runtime {
	whitelist := make(map[string]struct{}, len(cfg.Whitelist))
	for _, name := range cfg.Whitelist {
		if name = strings.TrimSpace(name); name != "" {
			whitelist[name] = struct{}{}
		}
	}

	return &Runtime{
		client:      cli,
		socket:      cfg.Socket,
		network:     cfg.Network,
		whitelist:   whitelist,
		callTimeout: cfg.CallTimeout,
	}
}

// callCtx bounds one adapter operation when a call timeout is configured.
func (r *Runtime) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.callTimeout)
}

func adapterCtx(ctx context.Context, action string, fields map[string]any) context.Context {
	all := map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "docker",
		zerowrap.FieldAction:  action,
	}
	for k, v := range fields {
		all[k] = v
	}
	return zerowrap.CtxWithFields(ctx, all)
}

// Ping checks if Docker is responsive.
func (r *Runtime) Ping(ctx context.Context) error {
	ctx, cancel := r.callCtx(ctx)
	defer cancel()

	if _, err := r.client.Ping(ctx); err != nil {
		return classify("ping engine", "", err)
	}
	return nil
}

// Version returns the Docker server version.
func (r *Runtime) Version(ctx context.Context) (string, error) {
	ctx, cancel := r.callCtx(ctx)
	defer cancel()

	version, err := r.client.ServerVersion(ctx)
	if err != nil {
		return "", classify("get engine version", "", err)
	}
	return version.Version, nil
}

// ListContainers lists every container, whatever its state.
func (r *Runtime) ListContainers(ctx context.Context) (map[string]domain.ContainerRecord, error) {
	ctx = adapterCtx(ctx, "ListContainers", nil)
	log := zerowrap.FromCtx(ctx)
	ctx, cancel := r.callCtx(ctx)
	defer cancel()

	containers, err := r.client.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		log.Error().Err(err).Msg("can't list containers")
		return nil, classify("list containers", "", err)
	}

	records := make(map[string]domain.ContainerRecord, len(containers))
	for _, c := range containers {
		// Get the primary name (remove leading slash)
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}

		state, err := MapState(string(c.State))
		if err != nil {
			log.Error().Err(err).Str("container_name", name).Msg("can't list containers")
			return nil, domain.NewAdapterError(domain.KindAdapter, "list containers", name, err)
		}

		records[name] = domain.ContainerRecord{
			Name:     name,
			ImageTag: c.Image,
			EngineID: c.ID,
			State:    state,
		}
	}

	log.Debug().Int(zerowrap.FieldCount, len(records)).Msg("containers listed")
	return records, nil
}

// StartContainer starts a container by name.
func (r *Runtime) StartContainer(ctx context.Context, name string) error {
	ctx = adapterCtx(ctx, "StartContainer", map[string]any{"container_name": name})
	log := zerowrap.FromCtx(ctx)
	ctx, cancel := r.callCtx(ctx)
	defer cancel()

	if err := r.client.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
		log.Error().Err(err).Msg("can't start container")
		return classify("start container", name, err)
	}

	log.Info().Msg("container started")
	return nil
}

// StopContainer stops a container by name using the engine's default grace period.
func (r *Runtime) StopContainer(ctx context.Context, name string) error {
	ctx = adapterCtx(ctx, "StopContainer", map[string]any{"container_name": name})
	log := zerowrap.FromCtx(ctx)
	ctx, cancel := r.callCtx(ctx)
	defer cancel()

	if err := r.client.ContainerStop(ctx, name, container.StopOptions{}); err != nil {
		log.Error().Err(err).Msg("can't stop container")
		return classify("stop container", name, err)
	}

	log.Info().Msg("container stopped")
	return nil
}

// RemoveContainer removes a container by name. With purge, the volumes labeled
// with the container name are force-removed; purge failures are only logged.
func (r *Runtime) RemoveContainer(ctx context.Context, name string, purge bool) error {
	ctx = adapterCtx(ctx, "RemoveContainer", map[string]any{"container_name": name, "purge": purge})
	log := zerowrap.FromCtx(ctx)
	ctx, cancel := r.callCtx(ctx)
	defer cancel()

	if err := r.client.ContainerRemove(ctx, name, container.RemoveOptions{}); err != nil {
		log.Error().Err(err).Msg("can't remove container")
		return classify("remove container", name, err)
	}
	log.Info().Msg("container removed")

	if purge {
		if err := r.purgeVolumes(ctx, name); err != nil {
			log.Warn().Err(err).Msg("volume purge incomplete")
		}
	}
	return nil
}

// InitNetwork creates the process-wide bridge network unless it already exists.
func (r *Runtime) InitNetwork(ctx context.Context) error {
	ctx = adapterCtx(ctx, "InitNetwork", map[string]any{"network": r.network.Name})
	log := zerowrap.FromCtx(ctx)
	ctx, cancel := r.callCtx(ctx)
	defer cancel()

	_, err := r.client.NetworkInspect(ctx, r.network.Name, network.InspectOptions{})
	if err == nil {
		log.Debug().Msg("network already exists")
		return nil
	}
	if kind := classifyKind(err); kind != domain.KindNotFound {
		log.Error().Err(err).Msg("can't create network")
		return domain.NewAdapterError(kind, "create network", r.network.Name, err)
	}

	createOptions := network.CreateOptions{
		Driver: "bridge",
		IPAM: &network.IPAM{
			Config: []network.IPAMConfig{{
				Subnet:  r.network.Subnet,
				IPRange: r.network.IPRange,
				Gateway: r.network.Gateway,
			}},
		},
	}
	if _, err := r.client.NetworkCreate(ctx, r.network.Name, createOptions); err != nil {
		log.Error().Err(err).Msg("can't create network")
		return classify("create network", r.network.Name, err)
	}

	log.Info().Str("subnet", r.network.Subnet).Str("gateway", r.network.Gateway).Msg("network created")
	return nil
}
