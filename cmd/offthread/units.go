package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jzx17/offthread/pkg/worker"
)

// Built-in units
var (
	unitDouble = worker.Define("double", func(ctx context.Context, self worker.Scope) error {
		for {
			if _, err := self.Receive(ctx); err != nil {
				return err
			}
			if err := self.PostMessage(1 + 1); err != nil {
				return err
			}
		}
	})

	unitEcho = worker.Define("echo", func(ctx context.Context, self worker.Scope) error {
		for {
			ev, err := self.Receive(ctx)
			if err != nil {
				return err
			}
			if err := self.PostMessage(ev.Data); err != nil {
				return err
			}
		}
	})

	unitSum = worker.Define("sum", func(ctx context.Context, self worker.Scope) error {
		for {
			ev, err := self.Receive(ctx)
			if err != nil {
				return err
			}
			var nums []float64
			if err := ev.Decode(&nums); err != nil {
				return fmt.Errorf("sum expects a list of numbers: %w", err)
			}
			var total float64
			for _, n := range nums {
				total += n
			}
			if err := self.PostMessage(total); err != nil {
				return err
			}
		}
	})

	unitFail = worker.Define("fail", func(ctx context.Context, self worker.Scope) error {
		ev, err := self.Receive(ctx)
		if err != nil {
			return err
		}
		return errors.New(fmt.Sprint(ev.Data))
	})
)

func newUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List the units this binary defines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(worker.Units(), "\n"))
			return nil
		},
	}
}
