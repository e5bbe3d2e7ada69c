package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-report2pdf/internal/inspect"
)

// ErrBandsMissing is returned when a page lacks an expected band string.
var ErrBandsMissing = errors.New("header or footer missing from PDF pages")

// textPreview bounds the page text printed per page.
const textPreview = 72

// runInspect prints the text of every PDF page and, with --map, checks the
// header and footer strings of every page.
func runInspect(args []string, env *Environment) error {
	flags, positional, err := parseInspectFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: inspect takes exactly one PDF file", ErrUsage)
	}

	pages, err := inspect.Open(positional[0])
	if err != nil {
		return err
	}

	if flags.pageMap == "" {
		for _, p := range pages {
			fmt.Fprintf(env.Stdout, "%4d  %s\n", p.Number, preview(p.Text))
		}
		fmt.Fprintf(env.Stdout, "\n%d pages\n", len(pages))
		return nil
	}

	m, err := inspect.LoadMap(flags.pageMap)
	if err != nil {
		return err
	}
	missing, err := inspect.CheckBands(pages, m)
	if err != nil {
		return err
	}
	for _, miss := range missing {
		fmt.Fprintf(env.Stderr, "MISSING %s\n", miss)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %d string(s)", ErrBandsMissing, len(missing))
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "OK %d pages, every band present\n", len(pages))
	}
	return nil
}

func preview(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	if r := []rune(s); len(r) > textPreview {
		return string(r[:textPreview-1]) + "…"
	}
	return s
}
