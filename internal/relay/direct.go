package relay

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/Luigi-p-git/sitelens/internal/config"
)

// DirectFetcher implements DirectClient using a Colly collector. Server-side
// there is no cross-origin restriction, so hitting the target directly is the
// cheapest link in the chain.
type DirectFetcher struct {
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// NewDirectFetcher constructs a configured Colly-based direct fetcher.
func NewDirectFetcher(cfg config.FetchConfig, logger *zap.Logger) (*DirectFetcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.IgnoreRobotsTxt(),
		colly.MaxBodySize(maxMarkupBytes),
	)
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.DirectTimeout(),
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.DirectTimeout())

	return &DirectFetcher{baseCollector: base, logger: logger}, nil
}

type directResult struct {
	status int
	body   []byte
	err    error
}

// Fetch retrieves the target page via the configured collector. Transport
// failures are returned as errors; HTTP-level failures come back as a status
// code with no error so the chain can classify them uniformly.
func (f *DirectFetcher) Fetch(ctx context.Context, target string) (int, []byte, error) {
	collector := f.baseCollector.Clone()
	resultCh := make(chan directResult, 1)
	var once sync.Once
	send := func(res directResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnResponse(func(r *colly.Response) {
		send(directResult{
			status: r.StatusCode,
			body:   append([]byte{}, r.Body...),
		})
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			send(directResult{status: r.StatusCode})
			return
		}
		if err == nil {
			err = errors.New("unknown transport error")
		}
		send(directResult{err: err})
	})

	if err := collector.Visit(target); err != nil {
		return 0, nil, err
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		return res.status, res.body, res.err
	default:
		return 0, nil, errors.New("direct fetch produced no result")
	}
}
