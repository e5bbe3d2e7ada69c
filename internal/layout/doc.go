// Package layout implements the fixed-page flow layout: blocks are measured,
// broken across pages of constant geometry, and every page of a chapter is
// stamped with the same header and footer bands.
//
// Measurement is pluggable. FontMeasurer computes heights from the Go font
// metrics without a browser; the root package provides a measurer backed by
// headless Chrome. Pagination itself is pure and deterministic: identical
// measures always give identical pages.
package layout
