package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jzx17/offthread/internal/metrics"
	"github.com/jzx17/offthread/pkg/env"
	"github.com/jzx17/offthread/pkg/types"
	"github.com/jzx17/offthread/pkg/worker"
)

type runOptions struct {
	unit        string
	messages    []string
	timeout     time.Duration
	metricsAddr string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start a unit, post messages to it and print its replies",
		Long: `run starts the named unit, posts every --message to it in order and
prints each reply. Message values are parsed as YAML, so 3 is a number,
"[1, 2]" a list and "{a: 1}" a map.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.metricsAddr == "" {
				opts.metricsAddr = root.cfg.MetricsAddr
			}
			return runUnit(cmd, root.logger, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.unit, "unit", "u", unitEcho.Name(), "unit to run")
	cmd.Flags().StringArrayVarP(&opts.messages, "message", "m", nil, "message to post (repeatable)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "how long to wait for replies")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /metrics on this address while running")
	return cmd
}

// parseMessage reads a command-line value as YAML. Map keys are turned into
// strings, so "{1: a}" posts as {"1": "a"}.
func parseMessage(s string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("parse message %q: %w", s, err)
	}
	return stringKeys(v), nil
}

func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = stringKeys(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = stringKeys(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = stringKeys(e)
		}
		return t
	default:
		return v
	}
}

func runUnit(cmd *cobra.Command, logger *zap.Logger, opts *runOptions) error {
	payloads := make([]any, 0, len(opts.messages))
	for _, m := range opts.messages {
		v, err := parseMessage(m)
		if err != nil {
			return err
		}
		payloads = append(payloads, v)
	}

	if opts.metricsAddr != "" {
		srv := &http.Server{Addr: opts.metricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	out := cmd.OutOrStdout()
	var (
		mu      sync.Mutex
		replies int
		failure error
	)
	finished := make(chan struct{})
	var finishOnce sync.Once
	finish := func() { finishOnce.Do(func() { close(finished) }) }

	h := worker.New(worker.Ref(opts.unit),
		worker.WithLogger(logger),
		worker.WithListener(types.EventMessage, func(ev *types.Event) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, "%v\n", ev.Data)
			replies++
			if replies >= len(payloads) {
				finish()
			}
		}),
		worker.WithListener(types.EventError, func(ev *types.Event) {
			mu.Lock()
			failure = ev.Err
			mu.Unlock()
			finish()
		}),
	)
	defer h.Terminate()

	for _, p := range payloads {
		if err := h.PostMessage(p); err != nil {
			return err
		}
	}

	if !env.Detect().Concurrent() {
		logger.Info("render context: worker is inert, no replies expected",
			zap.String("unit", opts.unit), zap.Error(env.DetectErr()))
		return nil
	}
	if len(payloads) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	select {
	case <-finished:
	case <-ctx.Done():
		return fmt.Errorf("waiting for replies from %s: %w", opts.unit, ctx.Err())
	}

	mu.Lock()
	defer mu.Unlock()
	return failure
}
