package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-report2pdf/internal/assets"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	Getenv      func(string) string
	Environ     func() []string
	AssetLoader assets.AssetLoader
	// NewPool builds the renderer pool; tests replace it with fakes.
	NewPool func(size int, opts poolOptions) Pool
}

// DefaultEnv returns production environment with embedded assets.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Getenv:      os.Getenv,
		Environ:     os.Environ,
		AssetLoader: assets.NewEmbeddedLoader(),
		NewPool:     newConverterPool,
	}
}
