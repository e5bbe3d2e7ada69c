package main

import (
	"context"
	"errors"
	"os"

	report2pdf "github.com/alnah/go-report2pdf"
	"github.com/alnah/go-report2pdf/internal/capture"
	"github.com/alnah/go-report2pdf/internal/config"
	"github.com/alnah/go-report2pdf/internal/diagram"
	"github.com/alnah/go-report2pdf/internal/document"
	"github.com/alnah/go-report2pdf/internal/inspect"
	"github.com/alnah/go-report2pdf/internal/layout"
	"github.com/alnah/go-report2pdf/internal/logging"
)

// Exit codes for the report2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or document
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitTimeout = 5 // Deadline exceeded or server never became ready
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Timeouts (exit 5)
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, capture.ErrServerTimeout) {
		return ExitTimeout
	}

	// Browser errors (exit 4)
	if errors.Is(err, report2pdf.ErrBrowserConnect) ||
		errors.Is(err, report2pdf.ErrPageCreate) ||
		errors.Is(err, report2pdf.ErrPageLoad) ||
		errors.Is(err, report2pdf.ErrPDFGeneration) ||
		errors.Is(err, report2pdf.ErrMeasure) ||
		errors.Is(err, capture.ErrNavigation) ||
		errors.Is(err, capture.ErrScreenshot) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, document.ErrDocumentRead) ||
		errors.Is(err, inspect.ErrPDFRead) ||
		errors.Is(err, inspect.ErrMapRead) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, capture.ErrInvalidConfig) ||
		errors.Is(err, document.ErrDocumentParse) ||
		errors.Is(err, document.ErrEmptyDocument) ||
		errors.Is(err, document.ErrInvalidSection) ||
		errors.Is(err, document.ErrDuplicateSection) ||
		errors.Is(err, document.ErrInvalidBlock) ||
		errors.Is(err, document.ErrUnknownDiagram) ||
		errors.Is(err, diagram.ErrUnknownDiagram) ||
		errors.Is(err, layout.ErrUnknownPageSize) ||
		errors.Is(err, layout.ErrBandOverlap) ||
		errors.Is(err, layout.ErrNoContentArea) ||
		errors.Is(err, report2pdf.ErrNoDocument) ||
		errors.Is(err, report2pdf.ErrInvalidPageSize) ||
		errors.Is(err, report2pdf.ErrInvalidOrientation) ||
		errors.Is(err, report2pdf.ErrInvalidMargin) ||
		errors.Is(err, report2pdf.ErrInvalidBandOffset) ||
		errors.Is(err, report2pdf.ErrFooterTooLong) ||
		errors.Is(err, report2pdf.ErrInvalidOrphans) ||
		errors.Is(err, report2pdf.ErrInvalidWidows) ||
		errors.Is(err, report2pdf.ErrStyleNotFound) ||
		errors.Is(err, report2pdf.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
