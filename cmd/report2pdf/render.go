package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	report2pdf "github.com/alnah/go-report2pdf"
	"github.com/alnah/go-report2pdf/internal/fileutil"
	"github.com/alnah/go-report2pdf/internal/inspect"
)

// Sentinel errors for rendering.
var (
	ErrNoInput          = errors.New("no report documents found")
	ErrInvalidExtension = errors.New("document must have .yaml or .yml extension")
	ErrWriteOutput      = errors.New("failed to write output file")
	ErrPoolInit         = errors.New("failed to initialize converter")
)

// embeddedName names the output of the embedded report.
const embeddedName = "report"

// DocumentToRender is a single document of a batch. An empty InputPath is
// the embedded report.
type DocumentToRender struct {
	InputPath  string
	OutputPath string
}

// RenderResult holds the outcome of a single render.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Pages      int
	Err        error
	Duration   time.Duration
}

// runRender renders every document named on the command line, or the
// configured or embedded report when none is named.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if flags.outputMode.html && flags.outputMode.htmlOnly {
		return fmt.Errorf("%w: --html and --html-only are mutually exclusive", ErrUsage)
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	mergeLayoutFlags(cfg, flags.page, flags.footer, flags.pageBreaks, flags.assets)
	if flags.workers == 0 {
		flags.workers = loadEnvConfig(env.Getenv).Workers
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

	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}
	docs, err := discoverDocuments(positional, cfg.Document.Path, outputDir)
	if err != nil {
		return err
	}

	params, err := buildRenderParams(cfg, flags.assets.css)
	if err != nil {
		return err
	}
	params.htmlOnly = flags.outputMode.htmlOnly
	params.htmlOutput = flags.outputMode.html
	params.pageMap = flags.outputMode.pageMap

	size := resolvePoolSize(flags.workers, len(docs))
	logger.Debug("starting render", zap.Int("documents", len(docs)), zap.Int("workers", size))
	pool := env.NewPool(size, poolOptions{converter: converterOptions(cfg, timeout, logger)})

	results := renderBatch(ctx, pool, docs, params)
	closeErr := pool.Close()

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		var errs error
		for _, r := range results {
			errs = multierr.Append(errs, r.Err)
		}
		return fmt.Errorf("%d render(s) failed: %w", failed, errs)
	}
	if closeErr != nil {
		logger.Warn("closing browsers", zap.Error(closeErr))
	}
	return nil
}

// discoverDocuments expands positional args into documents. With no args
// the configured document (or the embedded report) is rendered.
func discoverDocuments(args []string, configured, outputDir string) ([]DocumentToRender, error) {
	if len(args) == 0 {
		if configured == "" {
			return []DocumentToRender{{OutputPath: resolveOutputPath(embeddedName, outputDir, "")}}, nil
		}
		args = []string{configured}
	}

	var docs []DocumentToRender
	for _, arg := range args {
		found, err := discoverPath(arg, outputDir)
		if err != nil {
			return nil, err
		}
		docs = append(docs, found...)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInput, strings.Join(args, ", "))
	}
	if len(docs) > 1 && strings.HasSuffix(outputDir, ".pdf") {
		return nil, fmt.Errorf("%w: -o must be a directory when rendering %d documents", ErrUsage, len(docs))
	}
	return docs, nil
}

func discoverPath(inputPath, outputDir string) ([]DocumentToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !isDocumentFile(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		return []DocumentToRender{{InputPath: inputPath, OutputPath: resolveOutputPath(inputPath, outputDir, "")}}, nil
	}

	var docs []DocumentToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isDocumentFile(path) {
			return nil
		}
		docs = append(docs, DocumentToRender{InputPath: path, OutputPath: resolveOutputPath(path, outputDir, inputPath)})
		return nil
	})
	return docs, err
}

func isDocumentFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// resolveOutputPath determines the PDF path for a document.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".pdf")
	}
	if strings.HasSuffix(outputDir, ".pdf") {
		return outputDir
	}
	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(rel), base+".pdf")
		}
	}
	return filepath.Join(outputDir, base+".pdf")
}

// htmlOutputPath returns the HTML path corresponding to a PDF path.
func htmlOutputPath(pdfPath string) string {
	return fileutil.ReplaceExt(pdfPath, ".html")
}

// mapOutputPath returns the page map path corresponding to a PDF path.
func mapOutputPath(pdfPath string) string {
	return fileutil.ReplaceExt(pdfPath, ".pages.yaml")
}

// renderBatch processes documents concurrently using the pool.
func renderBatch(ctx context.Context, pool Pool, docs []DocumentToRender, params *renderParams) []RenderResult {
	if len(docs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(docs))
	results := make([]RenderResult, len(docs))
	jobs := make(chan int, len(docs))
	for i := range docs {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := pool.Acquire(ctx)
			if err != nil {
				for idx := range jobs {
					results[idx] = RenderResult{InputPath: docs[idx].InputPath, Err: fmt.Errorf("%w: %v", ErrPoolInit, err)}
				}
				return
			}
			defer pool.Release(r)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{InputPath: docs[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = renderDocument(ctx, r, docs[idx], params)
			}
		}()
	}
	wg.Wait()
	return results
}

// renderDocument renders a single document and writes its outputs.
func renderDocument(ctx context.Context, r Renderer, d DocumentToRender, params *renderParams) RenderResult {
	start := time.Now()
	result := RenderResult{InputPath: d.InputPath, OutputPath: d.OutputPath}
	fail := func(err error) RenderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	doc, baseDir, err := loadDocument(d.InputPath, params.loader)
	if err != nil {
		return fail(err)
	}

	res, err := r.Render(ctx, report2pdf.Input{
		Document:   doc,
		BaseDir:    baseDir,
		CSS:        params.css,
		Page:       params.page,
		Footer:     params.footer,
		PageBreaks: params.pageBreaks,
		HTMLOnly:   params.htmlOnly,
	})
	if err != nil {
		return fail(err)
	}

	if params.htmlOnly || params.htmlOutput {
		htmlPath := htmlOutputPath(d.OutputPath)
		if err := fileutil.WriteFile(htmlPath, res.HTML); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
		if params.htmlOnly {
			result.OutputPath = htmlPath
			result.Duration = time.Since(start)
			return result
		}
	}

	if err := fileutil.WriteFile(d.OutputPath, res.PDF); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	if res.Book != nil {
		result.Pages = len(res.Book.Pages)
	}

	if params.pageMap && res.Book != nil {
		data, err := inspect.MapFromBook(doc.Title, res.Book).Marshal()
		if err != nil {
			return fail(err)
		}
		if err := fileutil.WriteFile(mapOutputPath(d.OutputPath), data); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
	}

	result.Duration = time.Since(start)
	return result
}

// displayName names a document in messages.
func displayName(path string) string {
	if path == "" {
		return "(embedded report)"
	}
	return path
}

// printResults outputs render results and returns the failure count.
func printResults(results []RenderResult, quiet, verbose bool, env *Environment) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", displayName(r.InputPath), r.Err)
			continue
		}
		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n", displayName(r.InputPath), r.OutputPath, r.Pages, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return failed
}
