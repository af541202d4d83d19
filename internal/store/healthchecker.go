package store

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/searchrail/searchrail/internal/health"
	"github.com/searchrail/searchrail/internal/model"
)

// StoreHealthChecker monitors store health via periodic probes.
type StoreHealthChecker struct {
	store        Store
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

func NewStoreHealthChecker(store Store, log zerolog.Logger, probeTimeout time.Duration) *StoreHealthChecker {
	hc := &StoreHealthChecker{
		store:        store,
		log:          log,
		probeTimeout: probeTimeout,
	}
	hc.healthy.Store(0) // start unhealthy until first successful probe
	return hc
}

func (hc *StoreHealthChecker) Name() string { return "store" }

// IsHealthy returns the cached health status (non-blocking).
func (hc *StoreHealthChecker) IsHealthy() bool {
	return hc.healthy.Load() == 1
}

// Start begins periodic health checking.
func (hc *StoreHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		to := hc.probeTimeout
		if to <= 0 {
			to = 2 * time.Second
		}
		checkCtx, cancel := context.WithTimeout(ctx, to)
		defer cancel()

		if hc.probe(checkCtx) {
			hc.healthy.Store(1)
		} else {
			hc.healthy.Store(0)
		}
	}

	check()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

func (hc *StoreHealthChecker) probe(ctx context.Context) bool {
	// Prefer specialized HealthPing if the store provides it.
	if p, ok := hc.store.(health.HealthPinger); ok {
		if err := p.HealthPing(ctx); err != nil {
			hc.log.Error().Stack().
				Str("checker", hc.Name()).
				Err(err).
				Msg("store health check failed")
			return false
		}
		return true
	}

	// Fallback: a read that may miss still proves the database answers.
	_, err := hc.store.Users().Get(ctx, "__health_check__")
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		hc.log.Error().Stack().
			Str("checker", hc.Name()).
			Err(err).
			Msg("store health check failed")
		return false
	}
	return true
}
