package main

import (
	"context"
	"errors"
	"fmt"

	report2pdf "github.com/alnah/go-report2pdf"
)

// ErrInvalidWorkerCount is returned for a worker count out of range.
var ErrInvalidWorkerCount = errors.New("invalid worker count")

// Renderer is the interface for the rendering service.
type Renderer interface {
	Render(ctx context.Context, input report2pdf.Input) (*report2pdf.Result, error)
}

// Compile-time interface implementation check.
var _ Renderer = (*report2pdf.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (Renderer, error)
	Release(Renderer)
	Size() int
	Close() error
}

// poolOptions configures the converters a pool creates.
type poolOptions struct {
	converter []report2pdf.Option
}

// poolAdapter exposes report2pdf.ConverterPool as a Pool.
type poolAdapter struct {
	pool *report2pdf.ConverterPool
}

func newConverterPool(size int, opts poolOptions) Pool {
	return &poolAdapter{pool: report2pdf.NewConverterPool(size, opts.converter...)}
}

func (a *poolAdapter) Acquire(ctx context.Context) (Renderer, error) {
	c, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Release panics on a renderer the pool did not hand out: that is a
// programmer error.
func (a *poolAdapter) Release(r Renderer) {
	c, ok := r.(*report2pdf.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", r))
	}
	a.pool.Release(c)
}

func (a *poolAdapter) Size() int    { return a.pool.Size() }
func (a *poolAdapter) Close() error { return a.pool.Close() }

// pooledRenderer renders with a renderer borrowed from a pool. The preview
// server uses it so concurrent requests share the pool.
type pooledRenderer struct {
	pool Pool
}

func (p pooledRenderer) Render(ctx context.Context, input report2pdf.Input) (*report2pdf.Result, error) {
	r, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.pool.Release(r)
	return r.Render(ctx, input)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > report2pdf.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, report2pdf.MaxPoolSize)
	}
	return nil
}

// resolvePoolSize sizes the pool for jobs documents: never more browsers
// than documents.
func resolvePoolSize(workers, jobs int) int {
	n := report2pdf.ResolvePoolSize(workers)
	if jobs > 0 && n > jobs {
		n = jobs
	}
	return n
}
