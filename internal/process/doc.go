// Package process holds platform-specific helpers for tearing down the
// headless browser used by the PDF renderer and the capture tool.
package process
