// Package static implements browser.Page for server-rendered sites: pages are
// fetched over HTTP and queried as parsed HTML, with no script execution.
package static

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/xkilldash9x/matchscrape/internal/browser"
	"github.com/xkilldash9x/matchscrape/internal/config"
)

// Page fetches documents with resty and keeps the last one for querying.
type Page struct {
	client *resty.Client
	logger *zap.Logger
	doc    *Document
	closed bool
}

var _ browser.Page = (*Page)(nil)

// New builds a Page from the network settings. userAgent may be empty.
func New(cfg config.NetworkConfig, userAgent string, logger *zap.Logger) *Page {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.IgnoreTLSErrors {
		base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client := resty.New().
		SetTransport(newDecodingTransport(base)).
		SetTimeout(cfg.Timeout).
		SetHeaders(cfg.Headers)
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}

	return &Page{client: client, logger: logger.Named("static")}
}

// Navigate fetches url and replaces the current document. On failure the
// page is left empty so later queries find nothing.
func (p *Page) Navigate(ctx context.Context, url string) error {
	if p.closed {
		return fmt.Errorf("failed to navigate to %s: page is closed", url)
	}
	p.doc = nil

	resp, err := p.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if resp.IsError() {
		return fmt.Errorf("failed to navigate to %s: unexpected status %s", url, resp.Status())
	}

	doc, err := ParseDocument(bytes.NewReader(resp.Body()))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", url, err)
	}
	p.doc = doc
	p.logger.Debug("Fetched page.", zap.String("url", url), zap.Int("status", resp.StatusCode()), zap.Int("bytes", len(resp.Body())))
	return nil
}

// WaitPresent checks the fetched document once. A static document never
// changes after it arrives, so a miss is reported immediately.
func (p *Page) WaitPresent(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.doc != nil && p.doc.root.Find(selector).Length() > 0 {
		return nil
	}
	return fmt.Errorf("%w: %q not in fetched document", browser.ErrReadinessTimeout, selector)
}

func (p *Page) FindAll(ctx context.Context, selector string) ([]browser.Element, error) {
	if p.doc == nil {
		return nil, nil
	}
	return p.doc.FindAll(ctx, selector)
}

func (p *Page) Close(context.Context) error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.doc = nil
	p.client.GetClient().CloseIdleConnections()
	return nil
}

// Document is a parsed HTML document.
type Document struct {
	root *goquery.Document
}

// ParseDocument parses HTML from r.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// FindAll returns every element matching selector in document order.
func (d *Document) FindAll(_ context.Context, selector string) ([]browser.Element, error) {
	return wrap(d.root.Find(selector)), nil
}

func wrap(sel *goquery.Selection) []browser.Element {
	elements := make([]browser.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &element{sel: s})
	})
	return elements
}

// element wraps a single-node selection.
type element struct {
	sel *goquery.Selection
}

func (e *element) FindAll(_ context.Context, selector string) ([]browser.Element, error) {
	return wrap(e.sel.Find(selector)), nil
}

func (e *element) FindFirst(_ context.Context, tag string) (browser.Element, error) {
	found := e.sel.Find(tag).First()
	if found.Length() == 0 {
		return nil, fmt.Errorf("%w: <%s> under <%s>", browser.ErrNoSuchElement, tag, goquery.NodeName(e.sel))
	}
	return &element{sel: found}, nil
}

func (e *element) Text(context.Context) (string, error) {
	return innerText(e.sel.Nodes[0]), nil
}

func (e *element) Attribute(_ context.Context, name string) (string, error) {
	value, ok := e.sel.Attr(name)
	if !ok {
		return "", fmt.Errorf("%w: %s on <%s>", browser.ErrNoSuchAttribute, name, goquery.NodeName(e.sel))
	}
	return value, nil
}
