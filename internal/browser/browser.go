// Package browser defines the small browser-control surface the pager drives.
// Engines live in subpackages: chrome renders pages in a headless Chromium,
// static fetches server-rendered HTML over plain HTTP.
package browser

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrReadinessTimeout is returned by WaitPresent when nothing matched in time.
	ErrReadinessTimeout = errors.New("timed out waiting for elements")
	// ErrNoSuchElement is returned by FindFirst when the element has no matching descendant.
	ErrNoSuchElement = errors.New("no such element")
	// ErrNoSuchAttribute is returned by Attribute when the element lacks the attribute.
	ErrNoSuchAttribute = errors.New("no such attribute")
)

// Element is a node of the current document.
type Element interface {
	// FindAll returns the descendants matching a CSS selector, in document order.
	FindAll(ctx context.Context, selector string) ([]Element, error)
	// FindFirst returns the first descendant with the given tag name.
	FindFirst(ctx context.Context, tag string) (Element, error)
	// Text returns the rendered text, with line breaks preserved.
	Text(ctx context.Context) (string, error)
	// Attribute returns the value of a named attribute.
	Attribute(ctx context.Context, name string) (string, error)
}

// Page is a single browser tab reused across navigations.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// WaitPresent blocks until at least one element matches selector or the
	// timeout elapses, in which case the error wraps ErrReadinessTimeout.
	WaitPresent(ctx context.Context, selector string, timeout time.Duration) error
	// FindAll returns the document elements matching a CSS selector, without waiting.
	FindAll(ctx context.Context, selector string) ([]Element, error)
	// Close releases the session. Calls after the first are no-ops.
	Close(ctx context.Context) error
}
