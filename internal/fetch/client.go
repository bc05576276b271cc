// Package fetch implements the shared outbound HTTP client used by every
// network-touching component of the pipeline. All requests go through one
// pooled transport and one global concurrency ceiling.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/shopsight/insights/internal/metrics"
)

// Config controls client behavior.
type Config struct {
	UserAgent   string
	Timeout     time.Duration
	Concurrency int
}

// Response is the result of one GET.
type Response struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// OK reports whether the response carries a usable 2xx body.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client issues GETs via cloned Colly collectors sharing one pooled
// transport. A weighted semaphore caps in-flight requests across all
// concurrent pipeline tasks.
type Client struct {
	cfg           Config
	sem           *semaphore.Weighted
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// New builds a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 16
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()

	base := colly.NewCollector()
	base.IgnoreRobotsTxt = true
	base.AllowURLRevisit = true
	if cfg.UserAgent != "" {
		base.UserAgent = cfg.UserAgent
	}
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          128,
		MaxIdleConnsPerHost:   32,
		MaxConnsPerHost:       cfg.Concurrency * 2,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.Timeout)

	return &Client{
		cfg:           cfg,
		sem:           semaphore.NewWeighted(int64(cfg.Concurrency)),
		baseCollector: base,
		logger:        logger,
	}
}

// Get fetches rawURL. HTTP error statuses are returned in the Response
// with a nil error; only transport-level failures produce a non-nil
// error.
func (c *Client) Get(ctx context.Context, rawURL string) (Response, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return Response{}, fmt.Errorf("acquire fetch slot: %w", err)
	}
	defer c.sem.Release(1)

	start := time.Now()
	resp, err := c.visit(ctx, rawURL, start)
	switch {
	case err != nil:
		metrics.ObserveFetch(rawURL, "transport_error", time.Since(start))
	default:
		metrics.ObserveFetch(rawURL, strconv.Itoa(resp.StatusCode), resp.Duration)
	}
	return resp, err
}

func (c *Client) visit(ctx context.Context, rawURL string, start time.Time) (Response, error) {
	collector := c.baseCollector.Clone()

	var (
		result Response
		once   sync.Once
		done   = make(chan struct{})
	)
	finish := func(r Response) {
		once.Do(func() {
			result = r
			close(done)
		})
	}

	var transportErr error
	collector.OnResponse(func(r *colly.Response) {
		finish(Response{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Headers:    cloneHeaders(r.Headers),
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		})
	})
	collector.OnError(func(r *colly.Response, err error) {
		// Colly reports HTTP error statuses through OnError. Surface the
		// status code; callers decide what a 404 means for their category.
		if r != nil && r.StatusCode > 0 {
			finish(Response{
				URL:        r.Request.URL.String(),
				StatusCode: r.StatusCode,
				Headers:    cloneHeaders(r.Headers),
				Body:       append([]byte(nil), r.Body...),
				Duration:   time.Since(start),
			})
			return
		}
		if err == nil {
			err = errors.New("unknown colly error")
		}
		transportErr = err
		once.Do(func() { close(done) })
	})

	visitDone := make(chan error, 1)
	go func() {
		visitErr := collector.Visit(rawURL)
		collector.Wait()
		visitDone <- visitErr
	}()

	select {
	case <-ctx.Done():
		return Response{}, fmt.Errorf("fetch %s canceled: %w", rawURL, ctx.Err())
	case visitErr := <-visitDone:
		select {
		case <-done:
		default:
			if visitErr != nil {
				return Response{}, fmt.Errorf("visit %s: %w", rawURL, visitErr)
			}
			return Response{}, fmt.Errorf("fetch %s produced no result", rawURL)
		}
		if transportErr != nil {
			return Response{}, fmt.Errorf("fetch %s: %w", rawURL, transportErr)
		}
		return result, nil
	}
}

// GetDocument fetches rawURL and parses the body as HTML. Non-2xx
// statuses are returned as errors because every HTML consumer needs a
// real page.
func (c *Client) GetDocument(ctx context.Context, rawURL string) (*goquery.Document, Response, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, Response{}, err
	}
	if !resp.OK() {
		return nil, resp, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, resp, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, resp, nil
}

// GetJSON fetches rawURL and unmarshals a 200 JSON body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

func cloneHeaders(h *http.Header) http.Header {
	out := http.Header{}
	if h == nil {
		return out
	}
	for k, v := range *h {
		cp := make([]string, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}
