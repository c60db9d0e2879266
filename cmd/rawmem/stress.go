package main

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"unsafe"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/rawmem"
	"github.com/hupe1980/rawmem/internal/conv"
)

type stressConfig struct {
	workers    int
	iterations int
	sizes      []uintptr
	rate       float64
}

func newStressCommand(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run concurrent allocate, copy, clear and verify cycles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc := stressConfig{
				workers:    cfg.v.GetInt("workers"),
				iterations: cfg.v.GetInt("iterations"),
				rate:       cfg.v.GetFloat64("rate"),
			}
			if sc.workers <= 0 || sc.iterations <= 0 {
				return fmt.Errorf("workers and iterations must be positive")
			}
			for _, n := range cfg.v.GetIntSlice("sizes") {
				size, err := conv.IntToUintptr(n)
				if err != nil || size == 0 {
					return fmt.Errorf("sizes must be positive, got %d", n)
				}
				sc.sizes = append(sc.sizes, size)
			}
			if len(sc.sizes) == 0 {
				return fmt.Errorf("at least one size is required")
			}

			metrics := &rawmem.BasicMetricsCollector{}
			a, err := cfg.allocator(cmd, metrics)
			if err != nil {
				return err
			}

			start := time.Now()
			if err := runStress(cmd.Context(), a, sc); err != nil {
				return err
			}
			elapsed := time.Since(start)

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Metric", "Value"})
			table.Append([]string{"allocations", strconv.FormatInt(metrics.AllocCount.Load(), 10)})
			table.Append([]string{"allocation failures", strconv.FormatInt(metrics.AllocFailures.Load(), 10)})
			table.Append([]string{"reallocations", strconv.FormatInt(metrics.ReallocCount.Load(), 10)})
			table.Append([]string{"reallocation failures", strconv.FormatInt(metrics.ReallocFailures.Load(), 10)})
			table.Append([]string{"frees", strconv.FormatInt(metrics.FreeCount.Load(), 10)})
			table.Append([]string{"live", strconv.FormatInt(metrics.Live(), 10)})
			table.Append([]string{"elapsed", elapsed.Round(time.Millisecond).String()})
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("workers", 4, "concurrent workers")
	cmd.Flags().Int("iterations", 1000, "cycles per worker")
	cmd.Flags().IntSlice("sizes", []int{1, 31, 33, 200, 4096}, "region sizes in bytes")
	cmd.Flags().Float64("rate", 0, "cycles per second across all workers, 0 disables")
	return cmd
}

func runStress(ctx context.Context, a *rawmem.Allocator, sc stressConfig) error {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if sc.rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(sc.rate), sc.workers)
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < sc.workers; w++ {
		g.Go(func() error {
			for i := 0; i < sc.iterations; i++ {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
				n := sc.sizes[(w+i)%len(sc.sizes)]
				if err := cycle(a, n, byte(w*31+i)); err != nil {
					return fmt.Errorf("worker %d iteration %d: %w", w, i, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// cycle allocates a region of n bytes, grows it, copies it into a second
// region, clears the copy and checks each step. Allocation failures under a
// memory limit are skipped.
func cycle(a *rawmem.Allocator, n uintptr, seed byte) error {
	p := a.TryAllocate(n, true)
	if p == nil {
		return nil
	}
	defer func() { a.Free(p) }()

	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		if b[i] != 0 {
			return fmt.Errorf("byte %d not zeroed after allocation", i)
		}
		b[i] = seed + byte(i)
	}

	grown := a.TryReallocate(p, 2*n, true)
	if grown == nil {
		return nil
	}
	p = grown
	b = unsafe.Slice((*byte)(p), 2*n)
	for i := uintptr(0); i < n; i++ {
		if b[i] != seed+byte(i) {
			return fmt.Errorf("byte %d lost on reallocation", i)
		}
		if b[n+i] != 0 {
			return fmt.Errorf("byte %d not zeroed on growth", n+i)
		}
	}

	// Shift the pattern up by n/2 within the region.
	shift := n / 2
	rawmem.Copy(unsafe.Add(p, shift), p, n)
	for i := uintptr(0); i < n; i++ {
		if b[shift+i] != seed+byte(i) {
			return fmt.Errorf("byte %d wrong after overlapping copy", shift+i)
		}
	}

	q := a.TryAllocate(n, false)
	if q == nil {
		return nil
	}
	defer a.Free(q)
	rawmem.Copy(q, unsafe.Add(p, shift), n)
	rawmem.Clear(p, 2*n)
	c := unsafe.Slice((*byte)(q), n)
	for i := uintptr(0); i < n; i++ {
		if b[i] != 0 || b[n+i] != 0 {
			return fmt.Errorf("byte %d not cleared", i)
		}
		if c[i] != seed+byte(i) {
			return fmt.Errorf("byte %d wrong in copy", i)
		}
	}
	return nil
}
