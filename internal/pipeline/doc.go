// Package pipeline turns report blocks into HTML.
//
// One BlockRenderer serves every output: the web preview stacks sections in
// a scrollable page with print stylesheets, the paged output places block
// slices on fixed-size pages, and the measure page lets a browser report
// block heights. Markdown goes through goldmark with GFM and chroma
// highlighting; diagrams are inlined as SVG and images as data URIs, so
// every page is self-contained.
package pipeline
