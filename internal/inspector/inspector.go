// Package inspector performs the outbound page check: one HTTP GET and
// extraction of the H1, title and meta description from the returned HTML.
package inspector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// ErrUnreachable reports that the target produced no usable HTTP response.
var ErrUnreachable = errors.New("page unreachable")

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Snapshot is the result of inspecting a page. The text fields degrade to
// empty strings when the corresponding element is missing.
type Snapshot struct {
	StatusCode  int
	H1          string
	Title       string
	Description string
}

// Inspector fetches pages with a Colly collector and parses them with goquery.
type Inspector struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds an Inspector.
func New(cfg Config) *Inspector {
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.AllowURLRevisit = true
	// Non-2xx responses still carry a status code and a parsable body.
	c.ParseHTTPErrorResponse = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	// Clones share the collector's HTTP backend, so the timeout must be set
	// once here rather than per Inspect.
	c.SetRequestTimeout(timeout)
	return &Inspector{cfg: cfg, baseCollector: c}
}

// Inspect issues a single GET against pageURL and extracts the snapshot
// fields. Every HTTP response that comes back is reported with its status
// code, 2xx or not; only transport failures and unparsable bodies return
// ErrUnreachable. There are no retries.
func (i *Inspector) Inspect(ctx context.Context, pageURL string) (Snapshot, error) {
	collector := i.baseCollector.Clone()

	var (
		status int
		body   []byte
	)
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, _ error) {
		// Colly routes non-2xx responses here; keep whatever made it back.
		if r != nil && r.StatusCode != 0 {
			status = r.StatusCode
			body = append([]byte(nil), r.Body...)
		}
	})

	visitErr, finished := i.visit(ctx, collector, pageURL)
	if !finished {
		// The collector goroutine may still be writing; do not touch its state.
		return Snapshot{}, fmt.Errorf("%w: %v", ErrUnreachable, visitErr)
	}
	if status == 0 {
		if visitErr == nil {
			visitErr = errors.New("no response")
		}
		return Snapshot{}, fmt.Errorf("%w: %v", ErrUnreachable, visitErr)
	}

	snap := Snapshot{StatusCode: status}
	if err := extract(&snap, body); err != nil {
		return Snapshot{}, fmt.Errorf("%w: parse body: %v", ErrUnreachable, err)
	}
	return snap, nil
}

// visit runs the collector and reports whether it ran to completion. When the
// context expires first, finished is false and the collector's callbacks must
// be considered still live.
func (i *Inspector) visit(ctx context.Context, collector *colly.Collector, pageURL string) (err error, finished bool) {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(pageURL)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err()), false
	case err := <-done:
		return err, true
	}
}

func extract(snap *Snapshot, body []byte) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return err
	}
	snap.H1 = strings.TrimSpace(doc.Find("h1").First().Text())
	snap.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if desc, ok := doc.Find("meta[name='description']").First().Attr("content"); ok {
		snap.Description = strings.TrimSpace(desc)
	}
	return nil
}
