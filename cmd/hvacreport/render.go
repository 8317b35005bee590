package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hvac-pq-report/internal/report"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		in      string
		format  string
		out     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a report file as xlsx, pdf or docx",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := loadReport(in)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			start := time.Now()
			art, err := report.Render(ctx, data, f)
			if err != nil {
				return err
			}
			if out == "" {
				out = art.FileName
			}
			if err := os.WriteFile(out, art.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			a.log.Info("report rendered",
				zap.String("in", in),
				zap.String("out", out),
				zap.String("format", string(f)),
				zap.Int("rooms", len(data.Rooms)),
				zap.Duration("took", time.Since(start)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", out, len(art.Data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "report file (.yaml, .yml or .json)")
	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatXLSX), "output format: xlsx, pdf or docx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: derived from the report number)")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "abandon rendering after this long")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
