// Package scheduler owns the recurring pipeline runs. The scheduler is an
// explicit task handle held by the process root, not ambient global state:
// it has a stopped/running lifecycle and a guard that coalesces overlapping
// triggers of the same job instead of queueing them.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/trust-assembly/headline-engine/pipeline"
	Logger "github.com/trust-assembly/headline-engine/utils/log"
)

// Runner is the pipeline as seen by the scheduler.
type Runner interface {
	RunFull(ctx context.Context, scrapeLimit int, transformLimit int) (*pipeline.Result, error)
	RunTransformOnly(ctx context.Context, maxArticles int) (*pipeline.Result, error)
}

// Config controls the recurring schedule.
type Config struct {
	ScrapeIntervalMinutes    int `json:"scrape_interval_minutes"`
	TransformIntervalMinutes int `json:"transform_interval_minutes"`
	MaxArticlesPerScrape     int `json:"max_articles_per_scrape"`
	MaxArticlesPerTransform  int `json:"max_articles_per_transform"`
}

// DefaultConfig mirrors the long-standing defaults: scrape every 30 minutes,
// transform every 15.
func DefaultConfig() Config {
	return Config{
		ScrapeIntervalMinutes:    30,
		TransformIntervalMinutes: 15,
		MaxArticlesPerScrape:     5,
		MaxArticlesPerTransform:  10,
	}
}

// Status is the external view of the scheduler.
type Status struct {
	IsRunning bool       `json:"is_running"`
	Config    Config     `json:"config"`
	NextRun   *time.Time `json:"next_run,omitempty"`
}

// Scheduler drives full-pipeline and transform-only runs on their intervals.
// Only one run of either job may be in flight at a time; a tick that fires
// while the previous run is still going is skipped, not queued.
type Scheduler struct {
	runner Runner

	mu       sync.Mutex
	running  bool
	config   Config
	stopCh   chan struct{}
	nextRun  time.Time
	inFlight bool
}

func NewScheduler(runner Runner, config Config) *Scheduler {
	return &Scheduler{runner: runner, config: config}
}

// Start launches the recurring jobs and fires an initial full run. Calling
// Start on a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		Logger.Log.Info("scheduled tasks already running")
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	config := s.config
	s.nextRun = time.Now().Add(time.Duration(config.ScrapeIntervalMinutes) * time.Minute)
	s.mu.Unlock()

	Logger.Log.Infof("pipeline scheduled every %d minutes", config.ScrapeIntervalMinutes)

	go s.loop(stopCh, config)
}

func (s *Scheduler) loop(stopCh chan struct{}, config Config) {
	scrapeTicker := time.NewTicker(time.Duration(config.ScrapeIntervalMinutes) * time.Minute)
	transformTicker := time.NewTicker(time.Duration(config.TransformIntervalMinutes) * time.Minute)
	defer scrapeTicker.Stop()
	defer transformTicker.Stop()

	// Initial run before the first tick.
	s.tryRun(func(ctx context.Context) error {
		_, err := s.runner.RunFull(ctx, config.MaxArticlesPerScrape, config.MaxArticlesPerTransform)
		return err
	})

	for {
		select {
		case <-stopCh:
			return
		case <-scrapeTicker.C:
			s.mu.Lock()
			s.nextRun = time.Now().Add(time.Duration(config.ScrapeIntervalMinutes) * time.Minute)
			s.mu.Unlock()
			s.tryRun(func(ctx context.Context) error {
				_, err := s.runner.RunFull(ctx, config.MaxArticlesPerScrape, config.MaxArticlesPerTransform)
				return err
			})
		case <-transformTicker.C:
			s.tryRun(func(ctx context.Context) error {
				_, err := s.runner.RunTransformOnly(ctx, config.MaxArticlesPerTransform)
				return err
			})
		}
	}
}

// tryRun executes a job unless another is already in flight, in which case
// the trigger is coalesced away.
func (s *Scheduler) tryRun(job func(ctx context.Context) error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		Logger.Log.Warn("previous pipeline run still in flight, skipping this trigger")
		return
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	if err := job(context.Background()); err != nil {
		Logger.Log.Errorf("pipeline error: %v", err)
	}
}

// Stop halts the recurring jobs. An in-flight run finishes; no new runs
// start. Calling Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		Logger.Log.Info("scheduled tasks not running")
		return
	}
	s.running = false
	close(s.stopCh)
	s.stopCh = nil
	Logger.Log.Info("stopped automated pipeline")
}

// GetStatus reports lifecycle state, config and the next full-run time.
func (s *Scheduler) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{IsRunning: s.running, Config: s.config}
	if s.running {
		nextRun := s.nextRun
		status.NextRun = &nextRun
	}
	return status
}

// UpdateConfig replaces any fields set to a positive value and restarts the
// schedule if it is running so the new intervals take effect.
func (s *Scheduler) UpdateConfig(update Config) Config {
	s.mu.Lock()
	if update.ScrapeIntervalMinutes > 0 {
		s.config.ScrapeIntervalMinutes = update.ScrapeIntervalMinutes
	}
	if update.TransformIntervalMinutes > 0 {
		s.config.TransformIntervalMinutes = update.TransformIntervalMinutes
	}
	if update.MaxArticlesPerScrape > 0 {
		s.config.MaxArticlesPerScrape = update.MaxArticlesPerScrape
	}
	if update.MaxArticlesPerTransform > 0 {
		s.config.MaxArticlesPerTransform = update.MaxArticlesPerTransform
	}
	config := s.config
	wasRunning := s.running
	s.mu.Unlock()

	Logger.Log.Infof("updated scheduler configuration: %+v", config)
	if wasRunning {
		s.Stop()
		s.Start()
	}
	return config
}
