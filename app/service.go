// Package app wires the board manager, the scheduling orchestrator and
// their infrastructure adapters from the loaded configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetyard/dispatchboard/config"
	"github.com/fleetyard/dispatchboard/core/board"
	coremetrics "github.com/fleetyard/dispatchboard/core/metrics"
	"github.com/fleetyard/dispatchboard/core/scheduling"
	"github.com/fleetyard/dispatchboard/infra/bridge"
	"github.com/fleetyard/dispatchboard/infra/flow"
	"github.com/fleetyard/dispatchboard/infra/logger"
	"github.com/fleetyard/dispatchboard/infra/metrics"
	"github.com/fleetyard/dispatchboard/infra/provider"
	"github.com/fleetyard/dispatchboard/internal/eventbus"
)

// Service owns the wired board instance for one process.
type Service struct {
	Board        *board.Manager
	Orchestrator *scheduling.Orchestrator

	bus         eventbus.EventBus
	bridge      *bridge.Bridge
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	prov, err := provider.New(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("provider: %w", err)
	}
	engine, err := flow.New(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.Sink
	switch len(sinks) {
	case 0:
		sink = coremetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	mgr, err := board.NewManager(prov, logger.New("board"), sink, bus)
	if err != nil {
		return nil, fmt.Errorf("board manager: %w", err)
	}
	orch, err := scheduling.New(engine, mgr, logger.New("scheduling"), sink, bus, cfg.Scheduling)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	svc := &Service{
		Board:        mgr,
		Orchestrator: orch,
		bus:          bus,
		log:          logg,
		promEnabled:  cfg.Metrics.PrometheusEnabled,
		promPort:     cfg.Metrics.PrometheusPort,
	}
	if cfg.Bridge.Enabled {
		br, err := bridge.New(cfg.Bridge, bus)
		if err != nil {
			return nil, fmt.Errorf("mqtt bridge: %w", err)
		}
		svc.bridge = br
	}
	return svc, nil
}

// Run refreshes the board for the current week and serves until the
// context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Board.Refresh(ctx, time.Now(), ""); err != nil {
		return err
	}
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, ":"+s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if err := s.Orchestrator.Close(); err != nil {
		return err
	}
	if s.bridge != nil {
		if err := s.bridge.Close(); err != nil {
			return err
		}
	}
	s.bus.Close()
	return nil
}
