package app

import (
	"context"
	"sort"

	"github.com/bnema/zerowrap"

	"github.com/bnema/gateway-core/internal/boundaries/out"
	"github.com/bnema/gateway-core/internal/domain"
)

// Manager exposes direct container operations for the CLI.
type Manager struct {
	engine  out.ContainerEngine
	cleanup func()
}

// NewManager loads the configuration and connects to the engine.
func NewManager(ctx context.Context, configPath string) (context.Context, *Manager, error) {
	ctx, cfg, cleanup, err := setup(ctx, configPath)
	if err != nil {
		return ctx, nil, err
	}

	runtime, err := createRuntime(ctx, cfg)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return ctx, nil, err
	}

	return ctx, newManager(runtime, cleanup), nil
}

func newManager(engine out.ContainerEngine, cleanup func()) *Manager {
	return &Manager{engine: engine, cleanup: cleanup}
}

// Close releases the logger resources.
func (m *Manager) Close() {
	if m.cleanup != nil {
		m.cleanup()
	}
}

// List returns every container sorted by name.
func (m *Manager) List(ctx context.Context) ([]domain.ContainerRecord, error) {
	containers, err := m.engine.ListContainers(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]domain.ContainerRecord, 0, len(containers))
	for _, record := range containers {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records, nil
}

// Stop stops the named container.
func (m *Manager) Stop(ctx context.Context, name string) error {
	log := zerowrap.FromCtx(ctx)
	log.Info().Str(zerowrap.FieldEntityID, name).Msg("stopping container")
	return m.engine.StopContainer(ctx, name)
}

// Remove removes the named container, and its volumes when purge is set.
func (m *Manager) Remove(ctx context.Context, name string, purge bool) error {
	log := zerowrap.FromCtx(ctx)
	log.Info().Str(zerowrap.FieldEntityID, name).Bool("purge", purge).Msg("removing container")
	return m.engine.RemoveContainer(ctx, name, purge)
}
