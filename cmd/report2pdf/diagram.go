package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-report2pdf/internal/diagram"
	"github.com/alnah/go-report2pdf/internal/fileutil"
)

// runDiagram writes a built-in diagram as SVG or PNG, or lists them.
func runDiagram(args []string, env *Environment) error {
	flags, positional, err := parseDiagramFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	if flags.list {
		for _, name := range diagram.Names() {
			fmt.Fprintln(env.Stdout, name)
		}
		return nil
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: diagram takes exactly one name (see --list)", ErrUsage)
	}

	d, err := diagram.Lookup(positional[0])
	if err != nil {
		return err
	}

	if flags.output == "" {
		svg, err := d.SVG()
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, svg)
		return nil
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(flags.output)) {
	case ".svg":
		svg, err := d.SVG()
		if err != nil {
			return err
		}
		data = []byte(svg)
	case ".png":
		var buf bytes.Buffer
		if err := d.PNG(&buf, flags.scale); err != nil {
			return err
		}
		data = buf.Bytes()
	default:
		return fmt.Errorf("%w: output must end in .svg or .png, got %q", ErrUsage, flags.output)
	}

	if err := fileutil.WriteFile(flags.output, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	return nil
}
