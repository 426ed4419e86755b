package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alem-hub/mentorship-engine/internal/infrastructure/scheduler"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/scheduler/jobs"
	opshttp "github.com/alem-hub/mentorship-engine/internal/interface/http"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

func newWorkerCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the waitlist scheduler and the ops server",
		Long:  "Processes the waitlist on an interval, expires stale entries when a TTL is configured, and serves /healthz and /metrics until SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := c.application(ctx)
			if err != nil {
				return err
			}
			return runWorker(ctx, c, a)
		},
	}
}

// buildScheduler registers the waitlist jobs enabled by the configuration.
func buildScheduler(c *cli, a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(scheduler.Config{Logger: c.log})

	processCfg := jobs.DefaultProcessWaitlistConfig()
	processCfg.BatchSize = c.cfg.Scheduler.ProcessBatch
	processCfg.Timeout = c.cfg.Scheduler.JobTimeout

	err := sched.Register(
		jobs.NewProcessWaitlistJob(a.waitlist, c.log, processCfg),
		scheduler.EveryImmediately(c.cfg.Scheduler.ProcessInterval),
	)
	if err != nil {
		return nil, err
	}

	if c.cfg.Policy.WaitlistTTL > 0 {
		err := sched.Register(
			jobs.NewExpireWaitlistJob(a.waitlist, c.log),
			scheduler.Every(c.cfg.Scheduler.ExpireInterval),
		)
		if err != nil {
			return nil, err
		}
	}

	for _, name := range c.cfg.Scheduler.DisabledJobs {
		if err := sched.DisableJob(name); err != nil {
			if errors.Is(err, scheduler.ErrJobNotFound) {
				c.log.Warn("unknown job in scheduler.disabled_jobs", logger.String("job", name))
				continue
			}
			return nil, err
		}
	}
	return sched, nil
}

// jobFailureLimit is how many consecutive failed runs of one job turn the
// scheduler health check red.
const jobFailureLimit = 3

// jobHealth counts consecutive failures per job from scheduler results.
type jobHealth struct {
	mu       sync.Mutex
	limit    int
	failures map[string]int
}

func newJobHealth(limit int) *jobHealth {
	return &jobHealth{limit: limit, failures: make(map[string]int)}
}

func (h *jobHealth) observe(r scheduler.JobResult) {
	// Cancelled runs say nothing about the job, only about shutdown.
	if errors.Is(r.Error, context.Canceled) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if r.Success {
		delete(h.failures, r.JobName)
		return
	}
	h.failures[r.JobName]++
}

func (h *jobHealth) check(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var failing []string
	for name, n := range h.failures {
		if n >= h.limit {
			failing = append(failing, fmt.Sprintf("%s failed %d times in a row", name, n))
		}
	}
	if len(failing) == 0 {
		return nil
	}
	sort.Strings(failing)
	return errors.New(strings.Join(failing, "; "))
}

func runWorker(ctx context.Context, c *cli, a *app) error {
	log := c.log.With(logger.Component("worker"))

	ops := opshttp.NewServer(opshttp.Config{
		Addr:            c.cfg.Server.Addr,
		ReadTimeout:     c.cfg.Server.ReadTimeout,
		WriteTimeout:    c.cfg.Server.WriteTimeout,
		ShutdownTimeout: c.cfg.App.ShutdownTimeout,
	}, a.health, c.log)
	// Checks must finish before the ops server abandons the response.
	a.health.SetTimeout(c.cfg.Server.WriteTimeout / 2)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ops.Run(gctx)
	})

	if c.cfg.Scheduler.Enabled {
		sched, err := buildScheduler(c, a)
		if err != nil {
			return fmt.Errorf("build scheduler: %w", err)
		}
		health := newJobHealth(jobFailureLimit)
		sched.OnJobResult(health.observe)
		a.health.AddCheck("scheduler", health.check)

		if err := sched.Start(gctx); err != nil {
			return err
		}
		g.Go(func() error {
			<-gctx.Done()
			return sched.Stop()
		})
	} else {
		log.Info("scheduler disabled")
	}

	log.Info("worker started",
		logger.String("store", c.store),
		logger.String("environment", string(c.cfg.App.Environment)),
	)

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("worker stopped")
	return nil
}
