package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stake-plus/capapp/src/actions/core"
	"github.com/stake-plus/capapp/src/audit"
	"github.com/stake-plus/capapp/src/factcheck"
	"github.com/stake-plus/capapp/src/metrics"
	"go.uber.org/zap"
)

// Verifier resolves a statement to an outcome.
type Verifier interface {
	Verify(ctx context.Context, statement string) factcheck.Outcome
}

// Resolver looks up chat-platform entities for a batch.
type Resolver interface {
	// ResolveChannel fails when the channel is gone or unreadable.
	ResolveChannel(ctx context.Context, channelID string) error
	// DisplayName returns the participant's display name in the channel's guild.
	DisplayName(ctx context.Context, channelID, userID string) (string, error)
}

// Alert describes an adverse verdict found by the autoscan.
type Alert struct {
	ChannelID string
	UserID    string
	Username  string
	Outcome   factcheck.Outcome
}

// Alerter fans an alert out to the origin channel and any configured sinks.
type Alerter interface {
	Alert(ctx context.Context, a Alert) error
}

// Scheduler drains the buffer on a fixed interval and verifies each statement in turn.
type Scheduler struct {
	buffer   *Buffer
	verifier Verifier
	resolver Resolver
	alerter  Alerter
	recorder *audit.Recorder
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ core.Module = (*Scheduler)(nil)

// Config carries the scheduler's collaborators.
type Config struct {
	Buffer   *Buffer
	Verifier Verifier
	Resolver Resolver
	Alerter  Alerter
	Recorder *audit.Recorder
	Interval time.Duration
	Logger   *zap.Logger
}

func NewScheduler(cfg Config) (*Scheduler, error) {
	if cfg.Buffer == nil || cfg.Verifier == nil || cfg.Resolver == nil || cfg.Alerter == nil || cfg.Recorder == nil {
		return nil, fmt.Errorf("scan: scheduler is missing a collaborator")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Scheduler{
		buffer:   cfg.Buffer,
		verifier: cfg.Verifier,
		resolver: cfg.Resolver,
		alerter:  cfg.Alerter,
		recorder: cfg.Recorder,
		interval: cfg.Interval,
		logger:   cfg.Logger,
	}, nil
}

// Name implements core.Module.
func (s *Scheduler) Name() string { return "autoscan" }

// Start launches the tick loop. Ticks never overlap: a slow tick delays the next one and
// ticks missed meanwhile are dropped.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return fmt.Errorf("scan: scheduler already started")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				s.Tick(loopCtx)
			}
		}
	}(s.done)

	s.logger.Info("autoscan: started", zap.Duration("interval", s.interval))
	return nil
}

// Stop cancels the loop and waits for an in-flight tick to return.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Tick processes everything buffered so far. Every drained statement is consumed
// exactly once, whether or not its verification succeeds.
func (s *Scheduler) Tick(ctx context.Context) {
	batches := s.buffer.Drain()
	if len(batches) == 0 {
		return
	}
	start := time.Now()
	defer func() { metrics.ScanDuration.Observe(time.Since(start).Seconds()) }()

	for _, batch := range batches {
		if ctx.Err() != nil {
			s.logger.Warn("autoscan: tick cancelled, dropping remaining statements")
			return
		}
		s.processBatch(ctx, batch)
	}
}

func (s *Scheduler) processBatch(ctx context.Context, batch Batch) {
	log := s.logger.With(zap.String("channel", batch.ChannelID), zap.String("user", batch.UserID))

	if err := s.resolver.ResolveChannel(ctx, batch.ChannelID); err != nil {
		log.Warn("autoscan: channel unavailable, dropping statements",
			zap.Int("statements", len(batch.Statements)), zap.Error(err))
		return
	}

	username, err := s.resolver.DisplayName(ctx, batch.ChannelID, batch.UserID)
	if err != nil || username == "" {
		username = "User " + batch.UserID
	}

	for _, statement := range batch.Statements {
		if ctx.Err() != nil {
			return
		}
		s.processStatement(ctx, log, batch.Key, username, statement)
	}
}

func (s *Scheduler) processStatement(ctx context.Context, log *zap.Logger, key Key, username, statement string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("autoscan: statement panicked", zap.Any("panic", r))
		}
	}()

	out := s.verifier.Verify(ctx, statement)
	switch {
	case out.Err != nil:
		log.Warn("autoscan: verification error", zap.String("detail", out.ErrorMessage()), zap.Error(out.Err))
		return
	case !out.Resolved():
		log.Info("autoscan: no verdict available")
		return
	}

	s.recorder.Record(ctx, audit.TriggerAutoscan, key.UserID, username, out)

	if !out.Adverse() {
		return
	}
	err := s.alerter.Alert(ctx, Alert{
		ChannelID: key.ChannelID,
		UserID:    key.UserID,
		Username:  username,
		Outcome:   out,
	})
	if err != nil {
		log.Error("autoscan: alert dispatch failed", zap.Error(err))
		return
	}
	metrics.Alerts.Inc()
}
