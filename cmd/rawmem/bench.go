package main

import (
	"fmt"
	"strconv"
	"time"
	"unsafe"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hupe1980/rawmem/internal/mem"
	"github.com/hupe1980/rawmem/internal/simd"
)

type benchCase struct {
	name string
	run  func(k *simd.Kernels, buf []byte, n int)
}

var benchCases = []benchCase{
	{"copy", func(k *simd.Kernels, buf []byte, n int) {
		base := unsafe.Pointer(unsafe.SliceData(buf))
		k.Move(unsafe.Add(base, n), base, uintptr(n))
	}},
	{"copy-overlap", func(k *simd.Kernels, buf []byte, n int) {
		base := unsafe.Pointer(unsafe.SliceData(buf))
		k.Move(unsafe.Add(base, 1), base, uintptr(n))
	}},
	{"clear", func(k *simd.Kernels, buf []byte, n int) {
		k.Zero(unsafe.Pointer(unsafe.SliceData(buf)), uintptr(n))
	}},
}

func newBenchCommand(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure Copy and Clear throughput for every kernel tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sizes := cfg.v.GetIntSlice("sizes")
			iterations := cfg.v.GetInt("iterations")
			if iterations <= 0 {
				return fmt.Errorf("iterations must be positive, got %d", iterations)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Width", "Op", "Size", "ns/op", "MB/s"})

			for _, w := range simd.Widths {
				k := simd.ForWidth(w)
				for _, n := range sizes {
					if n <= 0 {
						return fmt.Errorf("sizes must be positive, got %d", n)
					}
					buf := mem.AllocAligned(2 * n)
					for _, bc := range benchCases {
						elapsed := measure(func() { bc.run(k, buf, n) }, iterations)
						perOp := elapsed / time.Duration(iterations)
						table.Append([]string{
							w.String(),
							bc.name,
							strconv.Itoa(n),
							strconv.FormatInt(perOp.Nanoseconds(), 10),
							throughput(n, iterations, elapsed),
						})
					}
				}
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntSlice("sizes", []int{32, 256, 4096, 65536}, "region sizes in bytes")
	cmd.Flags().Int("iterations", 10000, "iterations per measurement")
	return cmd
}

func measure(fn func(), iterations int) time.Duration {
	start := time.Now()
	for i := 0; i < iterations; i++ {
		fn()
	}
	return time.Since(start)
}

func throughput(n, iterations int, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "-"
	}
	mb := float64(n) * float64(iterations) / 1e6
	return strconv.FormatFloat(mb/elapsed.Seconds(), 'f', 1, 64)
}
