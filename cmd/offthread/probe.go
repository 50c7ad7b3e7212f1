package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jzx17/offthread/pkg/env"
)

func newProbeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Print the detected execution context",
		Long: `probe prints the execution context handles are built for. When the
context could not be resolved and fell back to render, the cause is printed
on the "fallback" line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := env.Detect(), env.DetectErr()
			if err != nil {
				opts.logger.Warn("context detection fell back to render", zap.Error(err))
			}
			printContext(cmd.OutOrStdout(), ctx, err, opts.cfg.Context)
			return nil
		},
	}
}

func printContext(w io.Writer, ctx env.Context, detectErr error, configured string) {
	fmt.Fprintf(w, "context:    %s\nconcurrent: %t\nconfigured: %s\n", ctx, ctx.Concurrent(), configured)
	if detectErr != nil {
		fmt.Fprintf(w, "fallback:   %v\n", detectErr)
	}
}
