package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hupe1980/rawmem"
	"github.com/hupe1980/rawmem/internal/simd"
)

func newCapsCommand(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "caps",
		Short: "Show detected CPU features and the selected kernel tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := cfg.logger(cmd)
			if err != nil {
				return err
			}
			c := rawmem.Capabilities()
			logger.LogCapability(cmd.Context(), c)

			features := tablewriter.NewWriter(cmd.OutOrStdout())
			features.SetHeader([]string{"Feature", "Available"})
			features.Append([]string{"sse2", strconv.FormatBool(simd.HasSSE2())})
			features.Append([]string{"avx2", strconv.FormatBool(simd.HasAVX2())})
			features.Append([]string{"avx512", strconv.FormatBool(simd.HasAVX512())})
			features.Append([]string{"neon", strconv.FormatBool(simd.HasASIMD())})
			features.Append([]string{"sve2", strconv.FormatBool(simd.HasSVE2())})
			features.Render()

			selected := tablewriter.NewWriter(cmd.OutOrStdout())
			selected.SetHeader([]string{"ISA", "Width", "Lane", "Stride", "Overridden"})
			selected.Append([]string{
				c.ISA,
				c.Width,
				strconv.Itoa(c.LaneBytes),
				strconv.Itoa(c.StrideBytes),
				strconv.FormatBool(c.Overridden),
			})
			selected.Render()
			return nil
		},
	}
}
