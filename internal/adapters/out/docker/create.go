package docker

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/bnema/zerowrap"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/go-connections/nat"

	"github.com/bnema/gateway-core/internal/domain"
)

// deviceCgroupPermissions grants read, write and mknod on mapped devices.
const deviceCgroupPermissions = "rwm"

// createParams holds the Docker create request assembled from a deployment config.
type createParams struct {
	config     *container.Config
	hostConfig *container.HostConfig
	networking *network.NetworkingConfig
}

// CreateContainer pulls the image, reconciles the container volumes and creates
// the container attached to the process-wide network. It does not start it.
func (r *Runtime) CreateContainer(ctx context.Context, name string, cfg domain.DeploymentConfig, serviceEnv, runtimeEnv map[string]string) error {
	ctx = adapterCtx(ctx, "CreateContainer", map[string]any{
		"container_name": name,
		"image":          cfg.Image,
	})
	log := zerowrap.FromCtx(ctx)
	ctx, cancel := r.callCtx(ctx)
	defer cancel()

	params, err := r.buildCreateParams(name, cfg, domain.MergeEnv(serviceEnv, runtimeEnv))
	if err != nil {
		log.Error().Err(err).Msg("can't create container")
		return domain.NewAdapterError(domain.KindAdapter, "create container", name, err)
	}

	// No local-image fallback: any pull failure is a generic adapter error.
	if err := r.pullImage(ctx, cfg.Image); err != nil {
		log.Error().Err(err).Msg("can't create container")
		return domain.NewAdapterError(domain.KindAdapter, "pull image", cfg.Image, err)
	}

	if len(cfg.Volumes) > 0 {
		if err := r.initVolumes(ctx, name, cfg.Volumes); err != nil {
			log.Error().Err(err).Msg("can't create container")
			return err
		}
	}

	resp, err := r.client.ContainerCreate(ctx, params.config, params.hostConfig, params.networking, nil, name)
	if err != nil {
		log.Error().Err(err).Msg("can't create container")
		return classify("create container", name, err)
	}

	for _, warning := range resp.Warnings {
		log.Warn().Str("warning", warning).Msg("engine warning on create")
	}
	log.Info().Str(zerowrap.FieldEntityID, resp.ID).Msg("container created")
	return nil
}

// pullImage pulls an image and drains the progress stream, which the daemon
// requires for the pull to complete.
func (r *Runtime) pullImage(ctx context.Context, imageRef string) error {
	log := zerowrap.FromCtx(ctx)
	log.Debug().Msg("pulling image")

	reader, err := r.client.ImagePull(ctx, imageRef, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()

	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("failed to read pull response: %w", err)
	}

	log.Debug().Msg("image pulled")
	return nil
}

// buildCreateParams translates a deployment config into Docker create options.
func (r *Runtime) buildCreateParams(name string, cfg domain.DeploymentConfig, env map[string]string) (*createParams, error) {
	exposedPorts, portBindings, err := buildPorts(cfg.Ports)
	if err != nil {
		return nil, err
	}

	binds := buildVolumeBinds(name, cfg.Volumes)
	if r.isWhitelisted(name) {
		if socket, ok := socketPath(r.socket); ok {
			binds = append(binds, fmt.Sprintf("%s:%s:rw", socket, socket))
		}
	}

	hostConfig := &container.HostConfig{
		Binds:        binds,
		PortBindings: portBindings,
		NetworkMode:  container.NetworkMode(r.network.Name),
	}
	hostConfig.Devices = buildDevices(cfg.Devices)

	return &createParams{
		config: &container.Config{
			Image:        cfg.Image,
			Env:          domain.EnvList(env),
			ExposedPorts: exposedPorts,
		},
		hostConfig: hostConfig,
		networking: &network.NetworkingConfig{
			EndpointsConfig: map[string]*network.EndpointSettings{
				r.network.Name: {},
			},
		},
	}, nil
}

func (r *Runtime) isWhitelisted(name string) bool {
	_, ok := r.whitelist[name]
	return ok
}

// buildPorts maps container_port/protocol to host ports. A zero host port leaves
// the choice to the engine.
func buildPorts(bindings []domain.PortBinding) (nat.PortSet, nat.PortMap, error) {
	if len(bindings) == 0 {
		return nil, nil, nil
	}

	exposedPorts := make(nat.PortSet, len(bindings))
	portBindings := make(nat.PortMap, len(bindings))
	for _, binding := range bindings {
		if err := validatePortBinding(binding); err != nil {
			return nil, nil, err
		}

		port, err := nat.NewPort(binding.ProtocolOrDefault(), strconv.Itoa(binding.ContainerPort))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid port binding %d/%s: %w", binding.ContainerPort, binding.Protocol, err)
		}

		hostPort := ""
		if binding.HostPort > 0 {
			hostPort = strconv.Itoa(binding.HostPort)
		}

		exposedPorts[port] = struct{}{}
		portBindings[port] = append(portBindings[port], nat.PortBinding{HostPort: hostPort})
	}
	return exposedPorts, portBindings, nil
}

func validatePortBinding(binding domain.PortBinding) error {
	if binding.ContainerPort < 1 || binding.ContainerPort > 65535 {
		return fmt.Errorf("invalid container port %d", binding.ContainerPort)
	}
	if binding.HostPort < 0 || binding.HostPort > 65535 {
		return fmt.Errorf("invalid host port %d", binding.HostPort)
	}
	switch binding.ProtocolOrDefault() {
	case "tcp", "udp", "sctp":
		return nil
	default:
		return fmt.Errorf("unsupported protocol %q", binding.Protocol)
	}
}

// buildVolumeBinds mounts every composite-named volume read-write at its path.
func buildVolumeBinds(name string, volumes map[string]string) []string {
	var binds []string
	for _, volumeName := range slices.Sorted(maps.Keys(volumes)) {
		binds = append(binds, fmt.Sprintf("%s:%s:rw", domain.VolumeName(name, volumeName), volumes[volumeName]))
	}
	return binds
}

func buildDevices(devices map[string]string) []container.DeviceMapping {
	var mappings []container.DeviceMapping
	for _, hostDevice := range slices.Sorted(maps.Keys(devices)) {
		mappings = append(mappings, container.DeviceMapping{
			PathOnHost:        hostDevice,
			PathInContainer:   devices[hostDevice],
			CgroupPermissions: deviceCgroupPermissions,
		})
	}
	return mappings
}

// socketPath returns the filesystem path of a unix engine socket.
func socketPath(socket string) (string, bool) {
	if path, ok := strings.CutPrefix(socket, "unix://"); ok {
		return path, path != ""
	}
	if strings.HasPrefix(socket, "/") {
		return socket, true
	}
	return "", false
}
