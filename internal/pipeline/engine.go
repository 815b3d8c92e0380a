// Package pipeline drains input_sms in cursor-ordered batches, runs the
// configured check sequence over each message, records the outcome, and
// hands accepted messages to the emitter.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/smsbridge/smsbridge/internal/checks"
	"github.com/smsbridge/smsbridge/internal/monitor"
	"github.com/smsbridge/smsbridge/internal/phone"
	"github.com/smsbridge/smsbridge/internal/settings"
)

// Inputs supplies cursor-ordered batches of unprocessed messages.
type Inputs interface {
	NextBatch(ctx context.Context, afterUUID string, limit int) ([]checks.Message, error)
}

// Monitor records validation outcomes.
type Monitor interface {
	Record(ctx context.Context, out monitor.Outcome) error
}

// Emitter runs the acceptance path for valid messages.
type Emitter interface {
	Accept(ctx context.Context, msg *checks.Message) error
}

// Settings supplies per-cycle snapshots and persists the cursor.
type Settings interface {
	Snapshot(ctx context.Context) (*settings.Snapshot, error)
	SetCursor(ctx context.Context, uuid string) error
}

// Config tunes the engine.
type Config struct {
	PollInterval time.Duration
}

// Engine is the batch validation loop. Start it once; Stop blocks until
// the in-flight cycle finishes.
type Engine struct {
	settings Settings
	inputs   Inputs
	monitor  Monitor
	emitter  Emitter
	registry checks.Registry
	logger   *slog.Logger
	cfg      Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an Engine.
func New(s Settings, in Inputs, mon Monitor, em Emitter, reg checks.Registry, logger *slog.Logger, cfg Config) *Engine {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &Engine{
		settings: s,
		inputs:   in,
		monitor:  mon,
		emitter:  em,
		registry: reg,
		logger:   logger,
		cfg:      cfg,
	}
}

// Start launches the poll loop.
func (e *Engine) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)
	e.wg.Add(1)
	go e.loop(ctx)
	e.logger.Info("pipeline started", "poll_interval", e.cfg.PollInterval)
}

// Stop cancels the loop and waits for the current cycle to finish.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
	e.logger.Info("pipeline stopped")
}

func (e *Engine) loop(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := e.RunCycle(ctx); err != nil && ctx.Err() == nil {
			e.logger.Error("pipeline cycle failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunCycle processes one batch. A store failure aborts the cycle
// without advancing the cursor, so the batch is re-picked next time and
// the idempotent writes absorb the replay. On shutdown the fully
// processed prefix is committed before returning.
func (e *Engine) RunCycle(ctx context.Context) error {
	snap, err := e.settings.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("loading settings snapshot: %w", err)
	}

	batch, err := e.inputs.NextBatch(ctx, snap.LastProcessedUUID, snap.BatchSize)
	if err != nil {
		return fmt.Errorf("fetching batch: %w", err)
	}
	if len(batch) == 0 {
		return nil
	}

	committed := ""
	for i := range batch {
		msg := &batch[i]
		msg.CountryCode, msg.LocalMobile = phone.Normalize(
			msg.SenderNumber, snap.AllowedCountryCodes, snap.DefaultCountryCode)

		out := e.evaluate(ctx, snap, msg)
		out.CompletedAt = time.Now().UTC()

		if err := e.monitor.Record(ctx, out); err != nil {
			return err
		}
		if out.Valid {
			if err := e.emitter.Accept(ctx, msg); err != nil {
				return fmt.Errorf("accepting %s: %w", msg.UUID, err)
			}
		}
		committed = msg.UUID

		select {
		case <-ctx.Done():
			return e.commit(ctx, committed, ctx.Err())
		default:
		}
	}
	return e.commit(ctx, committed, nil)
}

// commit persists the cursor up to the last fully processed message and
// returns the cycle error, if any.
func (e *Engine) commit(ctx context.Context, committed string, cause error) error {
	if committed == "" {
		return cause
	}
	// Use a fresh context so a cancelled cycle can still save its prefix.
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := e.settings.SetCursor(cctx, committed); err != nil {
		if cause != nil {
			return fmt.Errorf("%w (cursor not advanced: %v)", cause, err)
		}
		return err
	}
	return cause
}

// evaluate runs the configured sequence over one message. The first Fail
// short-circuits; disabled checks are marked Skipped and the sequence
// continues; an unknown name fails the message.
func (e *Engine) evaluate(ctx context.Context, snap *settings.Snapshot, msg *checks.Message) monitor.Outcome {
	out := monitor.Outcome{
		UUID:    msg.UUID,
		Valid:   true,
		Results: make(map[string]checks.Result, len(checks.Names())),
	}
	for _, name := range checks.Names() {
		out.Results[name] = checks.NotRun
	}

	for _, name := range snap.CheckSequence {
		if !snap.Enabled(name) {
			if _, known := out.Results[name]; known {
				out.Results[name] = checks.Skipped
			}
			continue
		}

		check, ok := e.registry.Lookup(name)
		if !ok {
			e.logger.Error("unknown check in sequence", "check", name, "uuid", msg.UUID)
			out.Valid = false
			out.FailedAt = name
			break
		}

		res, err := check.Run(ctx, snap, msg)
		if err != nil {
			e.logger.Error("check errored", "check", name, "uuid", msg.UUID, "error", err)
			res = checks.Fail
		}
		out.Results[name] = res

		if res == checks.Fail {
			out.Valid = false
			out.FailedAt = name
			break
		}
	}
	return out
}
