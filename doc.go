// Package report2pdf renders a static project report to a web preview and
// to a paginated PDF using headless Chrome.
//
// # Quick Start
//
//	doc, err := document.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conv, err := report2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Render(ctx, report2pdf.Input{Document: doc})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("report.pdf", result.PDF, 0644)
//
// # Two Paths
//
// The web preview (Result.HTML) stacks every section in one scrollable page
// and leaves pagination to the browser's print dialog; sections marked
// BreakBefore start on a new printed page.
//
// The PDF path lays content out itself:
//
//  1. Every block is measured in headless Chrome at the content width
//  2. Blocks are split into pages at line or row boundaries
//  3. Each page becomes a fixed-size box with its own header and footer
//     bands: chapter number and title above, document footer below
//  4. Chrome prints the boxes with the CSS page size and zero margins
//
// Because the bands are part of every page box, they repeat on every page
// of a chapter however long it runs.
//
// # Parallel Processing
//
// A Converter owns one browser and is not safe for concurrent use. Use
// ConverterPool to render several documents at once:
//
//	pool := report2pdf.NewConverterPool(report2pdf.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
package report2pdf
