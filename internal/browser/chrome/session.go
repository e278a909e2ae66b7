// Package chrome implements browser.Page on a headless Chromium driven over
// the DevTools protocol.
package chrome

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/matchscrape/internal/browser"
	"github.com/xkilldash9x/matchscrape/internal/config"
)

// Session owns one Chromium process and a single tab.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	logger      *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

var _ browser.Page = (*Session)(nil)

// New launches Chromium and opens the tab. A failure here means the engine
// could not start and is not recoverable.
func New(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	log := logger.Named("chrome")

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, AllocatorOptions(cfg)...)
	sugar := log.Sugar()
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		// CDP emits errors for events it cannot decode; they do not affect scraping.
		chromedp.WithErrorf(sugar.Debugf),
	)

	s := &Session{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
		logger:      log,
	}

	// The first Run starts the browser process.
	start := emulation.SetDeviceMetricsOverride(int64(cfg.Viewport.Width), int64(cfg.Viewport.Height), 1, false)
	if err := chromedp.Run(tabCtx, start); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	log.Info("Browser session started.",
		zap.Bool("headless", cfg.Headless),
		zap.Int("viewport_width", cfg.Viewport.Width),
		zap.Int("viewport_height", cfg.Viewport.Height),
	)
	return s, nil
}

// run executes actions on the tab, aborting early if ctx is cancelled.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := combineContext(s.ctx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// WaitPresent polls the DOM until selector matches or timeout elapses.
func (s *Session) WaitPresent(ctx context.Context, selector string, timeout time.Duration) error {
	runCtx, cancel := combineContext(s.ctx, ctx)
	defer cancel()
	waitCtx, waitCancel := context.WithTimeout(runCtx, timeout)
	defer waitCancel()

	err := chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err == nil {
		return nil
	}
	if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %q after %s", browser.ErrReadinessTimeout, selector, timeout)
	}
	return fmt.Errorf("failed waiting for %q: %w", selector, err)
}

// FindAll returns the current document's matches for selector.
func (s *Session) FindAll(ctx context.Context, selector string) ([]browser.Element, error) {
	return s.queryAll(ctx, selector, nil)
}

func (s *Session) queryAll(ctx context.Context, selector string, from *cdp.Node) ([]browser.Element, error) {
	opts := []chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}
	if from != nil {
		opts = append(opts, chromedp.FromNode(from))
	}

	var nodes []*cdp.Node
	if err := s.run(ctx, chromedp.Nodes(selector, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", selector, err)
	}

	elements := make([]browser.Element, len(nodes))
	for i, n := range nodes {
		elements[i] = &element{session: s, node: n}
	}
	return elements, nil
}

// Close shuts the tab and then the browser process.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		done := make(chan error, 1)
		go func() {
			// chromedp.Cancel blocks until the browser has exited.
			done <- chromedp.Cancel(s.ctx)
		}()

		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				s.closeErr = fmt.Errorf("failed to close browser: %w", err)
			}
		case <-ctx.Done():
			s.logger.Warn("Timed out waiting for the browser to exit; killing it.", zap.Error(ctx.Err()))
		}
		s.cancel()
		s.allocCancel()
		s.logger.Info("Browser session closed.")
	})
	return s.closeErr
}

// element is a DOM node of the session's current document.
type element struct {
	session *Session
	node    *cdp.Node
}

func (e *element) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *element) FindAll(ctx context.Context, selector string) ([]browser.Element, error) {
	return e.session.queryAll(ctx, selector, e.node)
}

func (e *element) FindFirst(ctx context.Context, tag string) (browser.Element, error) {
	found, err := e.session.queryAll(ctx, tag, e.node)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: <%s> under <%s>", browser.ErrNoSuchElement, tag, e.node.LocalName)
	}
	return found[0], nil
}

// Text reads innerText, which keeps the line breaks of the rendered layout.
func (e *element) Text(ctx context.Context) (string, error) {
	var text string
	if err := e.session.run(ctx, chromedp.JavascriptAttribute(e.ids(), "innerText", &text, chromedp.ByNodeID)); err != nil {
		return "", fmt.Errorf("failed to read text of <%s>: %w", e.node.LocalName, err)
	}
	return text, nil
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	var (
		value string
		ok    bool
	)
	if err := e.session.run(ctx, chromedp.AttributeValue(e.ids(), name, &value, &ok, chromedp.ByNodeID)); err != nil {
		return "", fmt.Errorf("failed to read %s of <%s>: %w", name, e.node.LocalName, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s on <%s>", browser.ErrNoSuchAttribute, name, e.node.LocalName)
	}
	return value, nil
}
