// Package fetch exposes a minimal interface for retrieving a page body
// by URL, plus an HTTP implementation of it.
package fetch

import "context"

// Client is the contract for a page fetcher.
type Client interface {
	// Fetch returns the body of the resource at url as text.
	Fetch(ctx context.Context, url string) (string, error)
}

// Func adapts a plain function to the Client interface.
type Func func(ctx context.Context, url string) (string, error)

// Fetch calls f(ctx, url).
func (f Func) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

var _ Client = Func(nil)
