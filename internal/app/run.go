package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/zerowrap"

	"github.com/bnema/gateway-core/internal/adapters/out/docker"
	"github.com/bnema/gateway-core/internal/adapters/out/netutil"
	"github.com/bnema/gateway-core/internal/adapters/out/registry"
	"github.com/bnema/gateway-core/internal/boundaries/in"
	"github.com/bnema/gateway-core/internal/domain"
	"github.com/bnema/gateway-core/internal/usecase/gateway"
)

// initLogger initializes the zerowrap logger.
func initLogger(cfg Config) (zerowrap.Logger, func(), error) {
	logConfig := zerowrap.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}

	if cfg.Logging.File.Enabled {
		log, cleanup, err := zerowrap.NewWithFile(logConfig, zerowrap.FileConfig{
			Enabled:    true,
			Path:       cfg.LogFilePath(),
			MaxSize:    cfg.Logging.File.MaxSize,
			MaxBackups: cfg.Logging.File.MaxBackups,
			MaxAge:     cfg.Logging.File.MaxAge,
			Compress:   true,
		})
		if err != nil {
			return zerowrap.Default(), nil, fmt.Errorf("failed to create logger with file: %w", err)
		}
		return log, cleanup, nil
	}

	return zerowrap.New(logConfig), nil, nil
}

// setup loads configuration and the logger, and attaches the logger to ctx.
func setup(ctx context.Context, configPath string) (context.Context, Config, func(), error) {
	_, cfg, err := initConfig(configPath)
	if err != nil {
		return ctx, Config{}, nil, err
	}

	log, cleanup, err := initLogger(cfg)
	if err != nil {
		return ctx, Config{}, nil, err
	}

	return zerowrap.WithCtx(ctx, log), cfg, cleanup, nil
}

// createRuntime creates the Docker runtime and checks the daemon answers.
func createRuntime(ctx context.Context, cfg Config) (*docker.Runtime, error) {
	log := zerowrap.FromCtx(ctx)

	runtime, err := docker.NewRuntime(cfg.DockerConfig())
	if err != nil {
		return nil, log.WrapErr(err, "failed to create Docker runtime")
	}

	if err := runtime.Ping(ctx); err != nil {
		return nil, log.WrapErr(err, "Docker is not available")
	}

	dockerVersion, _ := runtime.Version(ctx)
	log.Info().Str("docker_version", dockerVersion).Msg("Docker runtime initialized")

	return runtime, nil
}

// Run loads the configuration and runs one gateway convergence pass.
func Run(ctx context.Context, configPath string) error {
	ctx, cfg, cleanup, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	log := zerowrap.FromCtx(ctx)
	log.Info().
		Str(zerowrap.FieldLayer, "app").
		Str(zerowrap.FieldComponent, "gateway").
		Str("registry", cfg.Registry.Host).
		Msg("starting gateway-core")

	runtime, err := createRuntime(ctx, cfg)
	if err != nil {
		return reportFatal(ctx, domain.Fatal("initializing gateway failed", err))
	}

	registryClient := registry.NewClient(cfg.RegistryConfig(), registry.WithTimeout(cfg.Registry.Timeout))
	svc := gateway.NewService(runtime, registryClient, netutil.NewResolver(), cfg.GatewayConfig())

	return runGateway(ctx, svc)
}

// runGateway runs the convergence pass and reports fatal outcomes.
func runGateway(ctx context.Context, svc in.GatewayService) error {
	if err := svc.InitGateway(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log := zerowrap.FromCtx(ctx)
			log.Info().Msg("gateway initialization interrupted")
			return err
		}
		return reportFatal(ctx, err)
	}
	return nil
}

// reportFatal logs err at critical severity.
func reportFatal(ctx context.Context, err error) error {
	var fatal *domain.FatalError
	if !errors.As(err, &fatal) {
		fatal = domain.Fatal("initializing gateway failed", err)
	}

	log := zerowrap.FromCtx(ctx)
	log.Error().
		Str("severity", "critical").
		Err(fatal.Err).
		Msg(fatal.Reason)

	return fatal
}
