package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/rawmem"
	"github.com/hupe1980/rawmem/substrate"
)

const envPrefix = "RAWMEM"

type config struct {
	v *viper.Viper
}

func newRootCommand() *cobra.Command {
	cfg := &config{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "rawmem",
		Short: "Inspect and exercise the rawmem memory engine",
		Long: `Inspect and exercise the rawmem memory engine.

Environment variables:
  RAWMEM_SIMD=avx2          pin the kernel ISA
  RAWMEM_SUBSTRATE=mmap
  RAWMEM_MEMORY_LIMIT=0
  RAWMEM_LOG_LEVEL=info`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cfg.v.BindPFlags(cmd.Flags())
		},
	}

	cmd.PersistentFlags().String("substrate", "heap", "allocator substrate (heap, mmap)")
	cmd.PersistentFlags().Int64("memory-limit", 0, "byte limit for live allocations, 0 disables")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	cfg.v.SetEnvPrefix(envPrefix)
	cfg.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.v.AutomaticEnv()

	cmd.AddCommand(
		newCapsCommand(cfg),
		newBenchCommand(cfg),
		newStressCommand(cfg),
	)
	return cmd
}

func (c *config) logger(cmd *cobra.Command) (*rawmem.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.v.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return rawmem.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})), nil
}

func (c *config) substrate() (rawmem.Substrate, error) {
	switch name := c.v.GetString("substrate"); name {
	case "heap":
		return substrate.NewHeap(), nil
	case "mmap":
		return substrate.NewMmap(), nil
	default:
		return nil, fmt.Errorf("unknown substrate %q", name)
	}
}

func (c *config) allocator(cmd *cobra.Command, metrics rawmem.MetricsCollector) (*rawmem.Allocator, error) {
	logger, err := c.logger(cmd)
	if err != nil {
		return nil, err
	}
	s, err := c.substrate()
	if err != nil {
		return nil, err
	}
	return rawmem.New(
		rawmem.WithSubstrate(s),
		rawmem.WithMemoryLimit(c.v.GetInt64("memory-limit")),
		rawmem.WithLogger(logger),
		rawmem.WithMetricsCollector(metrics),
	), nil
}
