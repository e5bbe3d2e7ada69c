package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: report2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render project reports to PDF")
	fmt.Fprintln(w, "  layout     Paginate a report and print the page plan")
	fmt.Fprintln(w, "  serve      Serve the web preview and the PDF viewer")
	fmt.Fprintln(w, "  capture    Screenshot the PDF viewer once the server is up")
	fmt.Fprintln(w, "  diagram    Export a built-in diagram as SVG or PNG")
	fmt.Fprintln(w, "  inspect    Print PDF page text or verify header/footer bands")
	fmt.Fprintln(w, "  doctor     Check the rendering environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'report2pdf help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -t, --timeout <d>         Render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and debug logs")
}

func printLayoutFlagsUsage(w io.Writer) {
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.5-3.0)")
	fmt.Fprintln(w, "      --header-offset <f>   Header band distance from the top edge")
	fmt.Fprintln(w, "      --footer-offset <f>   Footer band distance from the bottom edge")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Footer:")
	fmt.Fprintln(w, "      --footer-text <s>     Footer band text")
	fmt.Fprintln(w, "      --page-number         Show page numbers")
	fmt.Fprintln(w, "      --no-page-number      Hide page numbers")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page Breaks:")
	fmt.Fprintln(w, "      --orphans <n>         Min lines at page bottom (1-5)")
	fmt.Fprintln(w, "      --widows <n>          Min lines at page top (1-5)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           CSS style name or file path")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file applied last")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: report2pdf render [input...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render project reports to PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Report YAML file or directory (default: config document or embedded report)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --html                Also write the web preview HTML")
	fmt.Fprintln(w, "      --html-only           Write the web preview HTML only")
	fmt.Fprintln(w, "      --map                 Also write the expected page map (.pages.yaml)")
	fmt.Fprintln(w)
	printLayoutFlagsUsage(w)
	printCommonUsage(w)
}

// printLayoutUsage prints usage for the layout command.
func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: report2pdf layout [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Paginate a report with font metrics and print which blocks land on")
	fmt.Fprintln(w, "each page. No browser is needed.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --yaml                Print the page map as YAML")
	fmt.Fprintln(w)
	printLayoutFlagsUsage(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: report2pdf serve [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the report:")
	fmt.Fprintln(w, "  /project-report        web preview")
	fmt.Fprintln(w, "  /project-report-pdf    PDF viewer")
	fmt.Fprintln(w, "  /diagrams/<name>.svg   built-in diagrams (also .png)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :3000)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renderers (0 = auto)")
	fmt.Fprintln(w)
	printLayoutFlagsUsage(w)
	printCommonUsage(w)
}

// printCaptureUsage prints usage for the capture command.
func printCaptureUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: report2pdf capture [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Wait for the preview server, open the PDF viewer in a headless browser,")
	fmt.Fprintln(w, "and save a full-page screenshot.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture:")
	fmt.Fprintln(w, "  -u, --url <url>           Viewer URL (default http://localhost:3000/project-report-pdf)")
	fmt.Fprintln(w, "  -o, --output <path>       Screenshot path (default tmp/toc-screenshot.png)")
	fmt.Fprintln(w, "      --poll-interval <d>   Server poll interval (default 1s)")
	fmt.Fprintln(w, "      --server-timeout <d>  Max wait for the server (default 60s)")
	fmt.Fprintln(w, "      --viewer-timeout <d>  Max wait for the viewer (default 60s)")
	fmt.Fprintln(w, "      --settle <d>          Delay before the screenshot (default 2s)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDiagramUsage prints usage for the diagram command.
func printDiagramUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: report2pdf diagram <name> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export a built-in diagram. SVG goes to stdout unless -o is set.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -o, --output <path>       Output file (.svg or .png)")
	fmt.Fprintln(w, "      --scale <f>           PNG scale factor (default 2)")
	fmt.Fprintln(w, "  -l, --list                List built-in diagrams")
}

// printInspectUsage prints usage for the inspect command.
func printInspectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: report2pdf inspect <file.pdf> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the text of each page, or check every page carries the")
	fmt.Fprintln(w, "header and footer bands listed in a page map.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -m, --map <path>          Page map written by 'render --map'")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "layout":
		printLayoutUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "capture":
		printCaptureUsage(env.Stdout)
	case "diagram":
		printDiagramUsage(env.Stdout)
	case "inspect":
		printInspectUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: report2pdf doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, fonts, assets, and the embedded report.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: report2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: report2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return nil
}
