// Package gateway implements the reconciliation use case that converges the
// local containers on the service set published by the component registry.
package gateway

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/google/uuid"

	"github.com/bnema/gateway-core/internal/boundaries/in"
	"github.com/bnema/gateway-core/internal/boundaries/out"
	"github.com/bnema/gateway-core/internal/domain"
)

const (
	reasonInitFailed   = "initializing gateway failed"
	reasonParseFailure = "could not parse response from component registry"

	// DefaultRetryInterval is the fixed delay between registry polls.
	DefaultRetryInterval = 10 * time.Second
)

var errMissingAfterCreate = errors.New("container not listed after create pass")

// Config holds the reconciliation settings.
type Config struct {
	ComponentID   string
	RetryInterval time.Duration
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Service implements the GatewayService interface.
type Service struct {
	engine   out.ContainerEngine
	registry out.ServiceRegistry
	resolver out.LocalIPResolver
	config   Config
	wait     WaitFunc
}

var _ in.GatewayService = (*Service)(nil)

// NewService creates a new gateway service.
func NewService(
	engine out.ContainerEngine,
	registry out.ServiceRegistry,
	resolver out.LocalIPResolver,
	config Config,
) *Service {
	if config.RetryInterval <= 0 {
		config.RetryInterval = DefaultRetryInterval
	}
	return &Service{
		engine:   engine,
		registry: registry,
		resolver: resolver,
		config:   config,
		wait:     sleepCtx,
	}
}

// SetWaitFunc replaces the retry delay, used by tests.
func (s *Service) SetWaitFunc(wait WaitFunc) {
	s.wait = wait
}

// InitGateway ensures the network exists, waits for the registry, creates the
// missing containers and starts the stopped ones.
func (s *Service) InitGateway(ctx context.Context) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "InitGateway",
		"pass_id":             uuid.NewString(),
		"component_id":        s.config.ComponentID,
	})
	log := zerowrap.FromCtx(ctx)

	log.Info().Msg("initializing gateway")

	if err := s.engine.InitNetwork(ctx); err != nil {
		return domain.Fatal(reasonInitFailed, err)
	}

	services, err := s.fetchServices(ctx)
	if err != nil {
		return err
	}
	log.Info().Int(zerowrap.FieldCount, len(services)).Msg("services fetched from registry")

	if err := s.createMissing(ctx, services); err != nil {
		return domain.Fatal(reasonInitFailed, err)
	}

	if err := s.startInactive(ctx, services); err != nil {
		return domain.Fatal(reasonInitFailed, err)
	}

	log.Info().Msg("gateway initialized")
	return nil
}

// fetchServices polls the registry until it answers with a usable payload.
func (s *Service) fetchServices(ctx context.Context) (map[string]domain.ServiceSpec, error) {
	log := zerowrap.FromCtx(ctx)

	for attempt := 1; ; attempt++ {
		services, err := s.registry.FetchServices(ctx)
		switch {
		case err == nil:
			return services, nil
		case errors.Is(err, domain.ErrMalformedPayload):
			log.Error().Err(err).Msg(reasonParseFailure)
			return nil, domain.Fatal(reasonParseFailure, err)
		case errors.Is(err, domain.ErrRegistryUnavailable):
			log.Error().
				Err(err).
				Int("attempt", attempt).
				Dur("retry_in", s.config.RetryInterval).
				Msg("component registry not ready")
			if werr := s.wait(ctx, s.config.RetryInterval); werr != nil {
				return nil, werr
			}
		default:
			return nil, log.WrapErr(err, "failed to fetch services")
		}
	}
}

func (s *Service) createMissing(ctx context.Context, services map[string]domain.ServiceSpec) error {
	log := zerowrap.FromCtx(ctx)

	existing, err := s.engine.ListContainers(ctx)
	if err != nil {
		return err
	}

	var runtimeEnv map[string]string
	for _, name := range sortedNames(services) {
		if _, ok := existing[name]; ok {
			continue
		}

		if runtimeEnv == nil {
			runtimeEnv, err = s.runtimeEnv()
			if err != nil {
				return err
			}
		}

		spec := services[name]
		log.Info().Str(zerowrap.FieldEntityID, name).Str("image", spec.Deployment.Image).Msg("creating container")
		if err := s.engine.CreateContainer(ctx, name, spec.Deployment, spec.Env, runtimeEnv); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) startInactive(ctx context.Context, services map[string]domain.ServiceSpec) error {
	log := zerowrap.FromCtx(ctx)

	containers, err := s.engine.ListContainers(ctx)
	if err != nil {
		return err
	}

	for _, name := range sortedNames(services) {
		record, ok := containers[name]
		if !ok {
			log.Error().Str(zerowrap.FieldEntityID, name).Msg("container missing after create pass")
			return domain.NewAdapterError(domain.KindNotFound, "start container", name, errMissingAfterCreate)
		}
		if record.State != domain.ContainerStateInactive {
			continue
		}

		log.Info().Str(zerowrap.FieldEntityID, name).Msg("starting container")
		if err := s.engine.StartContainer(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) runtimeEnv() (map[string]string, error) {
	ip, err := s.resolver.LocalIP(s.registry.Host())
	if err != nil {
		return nil, err
	}
	return map[string]string{
		domain.EnvGatewayLocalIP: ip,
		domain.EnvComponentID:    s.config.ComponentID,
	}, nil
}

func sortedNames(services map[string]domain.ServiceSpec) []string {
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
