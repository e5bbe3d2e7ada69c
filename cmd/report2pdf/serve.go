package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	report2pdf "github.com/alnah/go-report2pdf"
	"github.com/alnah/go-report2pdf/internal/server"
)

// runServe starts the preview server and blocks until ctx is cancelled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: serve takes at most one document", ErrUsage)
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	mergeLayoutFlags(cfg, flags.page, flags.footer, flags.pageBreaks, flags.assets)
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}

	logger, err := newLogger(cfg, flags.common, env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	timeout, err := resolveTimeout(flags.common.timeout, env)
	if err != nil {
		return err
	}

	path := cfg.Document.Path
	if len(positional) == 1 {
		path = positional[0]
	}
	params, err := buildRenderParams(cfg, flags.assets.css)
	if err != nil {
		return err
	}
	doc, baseDir, err := loadDocument(path, params.loader)
	if err != nil {
		return err
	}

	pool := env.NewPool(report2pdf.ResolvePoolSize(flags.workers), poolOptions{converter: converterOptions(cfg, timeout, logger)})
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing browsers", zap.Error(err))
		}
	}()

	input := report2pdf.Input{
		Document:   doc,
		BaseDir:    baseDir,
		CSS:        params.css,
		Page:       params.page,
		Footer:     params.footer,
		PageBreaks: params.pageBreaks,
	}
	srv := server.New(pooledRenderer{pool: pool}, input, server.WithLogger(logger))

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving %q on %s (preview %s, viewer %s)\n",
			doc.Title, cfg.ServerAddr(), server.PathPreview, server.PathViewer)
	}
	return srv.ListenAndServe(ctx, cfg.ServerAddr())
}
