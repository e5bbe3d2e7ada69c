package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-report2pdf/internal/capture"
	"github.com/alnah/go-report2pdf/internal/config"
)

// newCapturer builds the capturer; tests replace it to avoid Chrome.
var newCapturer = func(cfg capture.Config, logger *zap.Logger) captureRunner {
	return capture.New(cfg, capture.WithLogger(logger), capture.WithStateHook(func(s capture.State) {
		logger.Debug("capture", zap.Stringer("state", s))
	}))
}

type captureRunner interface {
	Run(ctx context.Context) error
}

// runCapture screenshots the PDF viewer page of a running preview server.
func runCapture(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseCaptureFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: capture takes no arguments", ErrUsage)
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, flags.common, env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cc, err := buildCaptureConfig(cfg.Capture, flags)
	if err != nil {
		return err
	}
	if err := newCapturer(cc, logger).Run(ctx); err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", cc.Output)
	}
	return nil
}

// buildCaptureConfig layers flags over config over the capture defaults.
func buildCaptureConfig(c config.CaptureConfig, flags *captureFlags) (capture.Config, error) {
	cc := capture.DefaultConfig()

	d, err := c.Durations()
	if err != nil {
		return cc, err
	}
	if c.URL != "" {
		cc.URL = c.URL
	}
	if c.Output != "" {
		cc.Output = c.Output
	}
	overrideDuration(&cc.PollInterval, d.PollInterval, flags.pollInterval)
	overrideDuration(&cc.ServerTimeout, d.ServerTimeout, flags.serverTimeout)
	overrideDuration(&cc.ViewerTimeout, d.ViewerTimeout, flags.viewerTimeout)
	overrideDuration(&cc.Settle, d.Settle, flags.settle)

	if flags.url != "" {
		cc.URL = flags.url
	}
	if flags.output != "" {
		cc.Output = flags.output
	}
	return cc, cc.Validate()
}

// overrideDuration applies the config value, then the flag value; zero
// leaves dst unchanged.
func overrideDuration(dst *time.Duration, fromConfig, fromFlag time.Duration) {
	if fromConfig > 0 {
		*dst = fromConfig
	}
	if fromFlag > 0 {
		*dst = fromFlag
	}
}
