package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	timeout string
}

// pageFlags holds page geometry flags.
type pageFlags struct {
	size         string
	orientation  string
	margin       float64
	headerOffset float64
	footerOffset float64
}

// footerFlags holds footer band flags.
type footerFlags struct {
	text         string
	pageNumber   bool
	noPageNumber bool
}

// pageBreakFlags holds orphans and widows flags.
type pageBreakFlags struct {
	orphans int
	widows  int
}

// assetFlags holds style and asset flags.
type assetFlags struct {
	style     string // Name, path, or inline CSS
	css       string // Extra CSS file layered last
	assetPath string // Override asset directory
}

// outputFlags holds output mode flags.
type outputFlags struct {
	html     bool // Write the web preview alongside the PDF
	htmlOnly bool // Write the web preview only
	pageMap  bool // Write the expected header/footer map alongside the PDF
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common     commonFlags
	output     string
	workers    int
	page       pageFlags
	footer     footerFlags
	pageBreaks pageBreakFlags
	assets     assetFlags
	outputMode outputFlags
}

// layoutFlags holds flags for the layout command.
type layoutFlags struct {
	common     commonFlags
	yaml       bool
	page       pageFlags
	footer     footerFlags
	pageBreaks pageBreakFlags
	assets     assetFlags
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common     commonFlags
	addr       string
	workers    int
	page       pageFlags
	footer     footerFlags
	pageBreaks pageBreakFlags
	assets     assetFlags
}

// captureFlags holds flags for the capture command. Zero durations mean
// config or built-in defaults.
type captureFlags struct {
	common        commonFlags
	url           string
	output        string
	pollInterval  time.Duration
	serverTimeout time.Duration
	viewerTimeout time.Duration
	settle        time.Duration
}

// diagramFlags holds flags for the diagram command.
type diagramFlags struct {
	output string
	scale  float64
	list   bool
}

// inspectFlags holds flags for the inspect command.
type inspectFlags struct {
	common  commonFlags
	pageMap string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g., 30s, 2m)")
}

// addPageFlags adds page geometry flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.5-3.0)")
	fs.Float64Var(&f.headerOffset, "header-offset", 0, "header band distance from the top edge in inches")
	fs.Float64Var(&f.footerOffset, "footer-offset", 0, "footer band distance from the bottom edge in inches")
}

// addFooterFlags adds footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.text, "footer-text", "", "footer band text (default: document footer)")
	fs.BoolVar(&f.pageNumber, "page-number", false, "show page numbers in the footer band")
	fs.BoolVar(&f.noPageNumber, "no-page-number", false, "hide page numbers even if configured")
}

// addPageBreakFlags adds page break flags to a FlagSet.
func addPageBreakFlags(fs *flag.FlagSet, f *pageBreakFlags) {
	fs.IntVar(&f.orphans, "orphans", 0, "min lines at page bottom (1-5)")
	fs.IntVar(&f.widows, "widows", 0, "min lines at page top (1-5)")
}

// addAssetFlags adds style and asset flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.css, "css", "", "extra CSS file applied last")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.html, "html", false, "write the web preview HTML alongside the PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write the web preview HTML only, skip PDF")
	fs.BoolVar(&f.pageMap, "map", false, "write the expected header/footer map (.pages.yaml)")
}

// newFlagSet creates a FlagSet whose usage goes to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parse runs fs and wraps errors as usage errors. flag.ErrHelp passes
// through unwrapped.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, w io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", w, printRenderUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addPageBreakFlags(fs, &f.pageBreaks)
	addAssetFlags(fs, &f.assets)
	addOutputFlags(fs, &f.outputMode)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseLayoutFlags parses layout command flags.
func parseLayoutFlags(args []string, w io.Writer) (*layoutFlags, []string, error) {
	f := &layoutFlags{}
	fs := newFlagSet("layout", w, printLayoutUsage)

	fs.BoolVar(&f.yaml, "yaml", false, "print the page map as YAML")
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addPageBreakFlags(fs, &f.pageBreaks)
	addAssetFlags(fs, &f.assets)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default :3000)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renderers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addPageBreakFlags(fs, &f.pageBreaks)
	addAssetFlags(fs, &f.assets)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCaptureFlags parses capture command flags.
func parseCaptureFlags(args []string, w io.Writer) (*captureFlags, []string, error) {
	f := &captureFlags{}
	fs := newFlagSet("capture", w, printCaptureUsage)

	fs.StringVarP(&f.url, "url", "u", "", "viewer page URL")
	fs.StringVarP(&f.output, "output", "o", "", "screenshot path")
	fs.DurationVar(&f.pollInterval, "poll-interval", 0, "server poll interval")
	fs.DurationVar(&f.serverTimeout, "server-timeout", 0, "max wait for the server")
	fs.DurationVar(&f.viewerTimeout, "viewer-timeout", 0, "max wait for the PDF viewer")
	fs.DurationVar(&f.settle, "settle", 0, "delay before the screenshot")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseDiagramFlags parses diagram command flags.
func parseDiagramFlags(args []string, w io.Writer) (*diagramFlags, []string, error) {
	f := &diagramFlags{}
	fs := newFlagSet("diagram", w, printDiagramUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file (.svg or .png); SVG to stdout if empty")
	fs.Float64Var(&f.scale, "scale", 2, "PNG scale factor")
	fs.BoolVarP(&f.list, "list", "l", false, "list built-in diagrams")

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseInspectFlags parses inspect command flags.
func parseInspectFlags(args []string, w io.Writer) (*inspectFlags, []string, error) {
	f := &inspectFlags{}
	fs := newFlagSet("inspect", w, printInspectUsage)

	fs.StringVarP(&f.pageMap, "map", "m", "", "page map to verify bands against")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
