package cli

import (
	"fmt"
	"math"
	"math/rand/v2"
	"text/tabwriter"
	"time"

	cbackoff "github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"github.com/zeusync/nsqcore/internal/core/backoff"
	"github.com/zeusync/nsqcore/internal/core/config"
	"github.com/zeusync/nsqcore/internal/core/observability/log"
)

const defaultScheduleAttempts = 10

func newTimer(cfg *config.Config, seed uint64) *backoff.Timer {
	if seed == 0 {
		return cfg.Backoff.NewTimer()
	}
	return cfg.Backoff.NewTimer(backoff.WithRandSource(rand.NewPCG(seed, seed)))
}

func newSimulateCommand(opts *options) *cobra.Command {
	var (
		failures int
		draws    int
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Sample backoff intervals after a number of consecutive failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if failures < 0 || draws < 1 {
				return fmt.Errorf("failures must be >= 0 and draws >= 1, got %d and %d", failures, draws)
			}
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			timer := newTimer(cfg, seed)
			for range failures {
				timer.Failure()
			}
			logger.Debug("Simulating backoff",
				log.Failures(timer.Failures()),
				log.Float64("ratio", cfg.Backoff.Ratio),
				log.Int("draws", draws))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "DRAW\tINTERVAL\tDELAY")
			lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
			for i := range draws {
				interval := timer.Interval()
				lo, hi, sum = math.Min(lo, interval), math.Max(hi, interval), sum+interval
				_, _ = fmt.Fprintf(w, "%d\t%g\t%s\n", i+1, interval, backoff.ToDuration(interval))
			}
			_, _ = fmt.Fprintf(w, "min\t%g\t\n", lo)
			_, _ = fmt.Fprintf(w, "max\t%g\t\n", hi)
			_, _ = fmt.Fprintf(w, "mean\t%g\t\n", sum/float64(draws))
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&failures, "failures", 0, "consecutive failures recorded before sampling")
	cmd.Flags().IntVar(&draws, "draws", 10, "number of intervals to sample")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible draws (0 uses the global source)")
	return cmd
}

func newScheduleCommand(opts *options) *cobra.Command {
	var (
		attempts int
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the waits a retry loop would go through when every attempt fails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if !cmd.Flags().Changed("attempts") {
				attempts = cfg.Retry.MaxAttempts
			}
			if attempts <= 0 {
				attempts = defaultScheduleAttempts
			}

			tb := backoff.NewTimerBackOff(newTimer(cfg, seed))
			b := cbackoff.WithMaxRetries(tb, uint64(attempts-1))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ATTEMPT\tFAILURES\tWAIT\tELAPSED")
			_, _ = fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", 1, 0, time.Duration(0), time.Duration(0))

			var elapsed time.Duration
			for attempt := 2; ; attempt++ {
				wait := b.NextBackOff()
				if wait == cbackoff.Stop {
					break
				}
				elapsed = saturatingAdd(elapsed, wait)
				_, _ = fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", attempt, tb.Timer().Failures(), wait, elapsed)
			}
			logger.Debug("Schedule exhausted", log.Int("attempts", attempts), log.Duration("elapsed", elapsed))
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&attempts, "attempts", 0, "attempts including the first one (defaults to retry.max_attempts)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible draws (0 uses the global source)")
	return cmd
}

func saturatingAdd(a, b time.Duration) time.Duration {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
