package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	report2pdf "github.com/alnah/go-report2pdf"
	"github.com/alnah/go-report2pdf/internal/document"
	"github.com/alnah/go-report2pdf/internal/inspect"
	"github.com/alnah/go-report2pdf/internal/layout"
	"github.com/alnah/go-report2pdf/internal/pipeline"
)

// runLayout paginates a document with the font measurer and prints the
// page map. No browser is started.
func runLayout(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseLayoutFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: layout takes at most one document", ErrUsage)
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	mergeLayoutFlags(cfg, flags.page, flags.footer, flags.pageBreaks, flags.assets)

	logger, err := newLogger(cfg, flags.common, env)
	if err != nil {
		return err
	}
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

	measurer := layout.NewFontMeasurer()
	measurer.Plain = pipeline.PlainText
	opts := append(converterOptions(cfg, timeout, logger), report2pdf.WithMeasurer(measurer))
	conv, err := report2pdf.NewConverter(opts...)
	if err != nil {
		return err
	}
	defer conv.Close()

	book, err := conv.Layout(ctx, report2pdf.Input{
		Document:   doc,
		BaseDir:    baseDir,
		CSS:        params.css,
		Page:       params.page,
		Footer:     params.footer,
		PageBreaks: params.pageBreaks,
	})
	if err != nil {
		return err
	}

	if flags.yaml {
		data, err := inspect.MapFromBook(doc.Title, book).Marshal()
		if err != nil {
			return err
		}
		_, err = env.Stdout.Write(data)
		return err
	}
	printBook(env.Stdout, doc, book)
	return nil
}

// printBook writes one line per page: number, section, bands, and the
// slices it holds.
func printBook(w io.Writer, doc *document.Document, book *layout.Book) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tSECTION\tHEADER\tFOOTER\tSLICES")
	for _, p := range book.Pages {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			p.Number,
			doc.Sections[p.Section].ID,
			bandText(p.Header),
			bandText(p.Footer),
			sliceSummary(p.Slices, book.Sections[p.Section].Measures),
		)
	}
	tw.Flush()

	if n := book.Overflows(); n > 0 {
		fmt.Fprintf(w, "\n%d slice(s) cut without an allowed break\n", n)
	}
	fmt.Fprintf(w, "\n%d pages\n", len(book.Pages))
}

func bandText(b *layout.Band) string {
	if b == nil {
		return "-"
	}
	return strings.TrimSpace(b.Left + " | " + b.Right)
}

// sliceSummary lists block numbers; split blocks carry their point range.
func sliceSummary(slices layout.PageSlices, measures []layout.Measure) string {
	parts := make([]string, len(slices))
	for i, s := range slices {
		part := fmt.Sprintf("#%d", s.Block+1)
		whole := s.Block < len(measures) && s.From == 0 && s.To >= measures[s.Block].Height
		if !whole {
			part += fmt.Sprintf("[%.0f-%.0f]", s.From, s.To)
		}
		if s.Overflow {
			part += "!"
		}
		parts[i] = part
	}
	return strings.Join(parts, " ")
}
