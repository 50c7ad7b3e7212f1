//go:build !(js && wasm)

package env

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jzx17/offthread/internal/config"
)

// probe resolves the configured context. Native processes can always run
// goroutines, so "auto" means interactive; render has to be asked for.
func probe() (Context, error) {
	cfg, err := config.FromEnvironment()
	if err != nil {
		zap.L().Warn("falling back to render context", zap.Error(err))
		return ContextRender, fmt.Errorf("load context configuration: %w", err)
	}
	return resolve(cfg.Context, ContextInteractive)
}

func resolve(name string, platformDefault Context) (Context, error) {
	ctx, auto, err := ParseContext(name)
	if err != nil {
		zap.L().Warn("falling back to render context", zap.String("context", name), zap.Error(err))
		return ContextRender, err
	}
	if auto {
		return platformDefault, nil
	}
	return ctx, nil
}
