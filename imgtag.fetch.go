package imgtag

import (
	"context"
	"io"
	"maps"
	"net/http"
	"slices"
	"time"

	"go.uber.org/zap"
)

// HTTPClient is the outbound transport of a Fetcher. *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is a fetched and memoized HTTP response.
type Response struct {
	URL        string              `json:"url" msgpack:"url"`
	StatusCode int                 `json:"status_code" msgpack:"status_code"`
	Header     map[string][]string `json:"header,omitempty" msgpack:"header,omitempty"`
	Body       []byte              `json:"body,omitempty" msgpack:"body,omitempty"`
	FetchedAt  time.Time           `json:"fetched_at" msgpack:"fetched_at"`
}

// Clone returns a deep copy of r.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	out := *r
	out.Body = slices.Clone(r.Body)
	if r.Header != nil {
		out.Header = make(map[string][]string, len(r.Header))
		for k, v := range r.Header {
			out.Header[k] = slices.Clone(v)
		}
	}
	return &out
}

// FetchCache stores successful responses keyed by URL.
type FetchCache interface {
	Get(ctx context.Context, url string) (*Response, bool, error)
	Set(ctx context.Context, url string, resp *Response) error
	Delete(ctx context.Context, url string) error
	Clear(ctx context.Context) error
}

// Fetcher performs GET requests and memoizes successful responses.
type Fetcher struct {
	client  HTTPClient
	cache   FetchCache
	maxBody int64
	diag    *diagnostics
}

// NewFetcher creates a fetcher. A nil client uses http.DefaultClient; a nil
// cache disables memoization.
func NewFetcher(client HTTPClient, cache FetchCache) *Fetcher {
	return newFetcher(client, cache, DefaultFetchMaxBodySize, nil)
}

func newFetcher(client HTTPClient, cache FetchCache, maxBody int64, diag *diagnostics) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if maxBody <= 0 {
		maxBody = DefaultFetchMaxBodySize
	}
	return &Fetcher{client: client, cache: cache, maxBody: maxBody, diag: diag}
}

// Get returns the response for url, from the memo unless force is set.
// Only 2xx responses are memoized; other statuses return an error.
func (f *Fetcher) Get(ctx context.Context, url string, force bool) (*Response, error) {
	if !force && f.cache != nil {
		cached, ok, err := f.cache.Get(ctx, url)
		switch {
		case err != nil:
			f.diag.log().Warn(LogMsgFetchCacheError, zap.String(LogFieldURL, url), zap.Error(err))
			f.diag.fetchLookup(CacheResultError)
		case ok:
			f.diag.log().Debug(LogMsgFetchCacheHit, zap.String(LogFieldURL, url))
			f.diag.fetchLookup(CacheResultHit)
			return cached, nil
		default:
			f.diag.fetchLookup(CacheResultMiss)
		}
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewFetchError(url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		err = NewFetchError(url, err)
		f.diag.fetchComplete(ctx, url, 0, time.Since(start), err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		err = NewFetchError(url, err)
		f.diag.fetchComplete(ctx, url, resp.StatusCode, time.Since(start), err)
		return nil, err
	}
	if int64(len(body)) > f.maxBody {
		err = NewFetchTooLargeError(url, f.maxBody)
		f.diag.fetchComplete(ctx, url, resp.StatusCode, time.Since(start), err)
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = NewFetchStatusError(url, resp.StatusCode)
		f.diag.fetchComplete(ctx, url, resp.StatusCode, time.Since(start), err)
		return nil, err
	}

	result := &Response{
		URL:        url,
		StatusCode: resp.StatusCode,
		Header:     maps.Clone(map[string][]string(resp.Header)),
		Body:       body,
		FetchedAt:  time.Now().UTC(),
	}
	if f.cache != nil {
		if err := f.cache.Set(ctx, url, result); err != nil {
			f.diag.log().Warn(LogMsgFetchCacheError, zap.String(LogFieldURL, url), zap.Error(err))
		}
	}
	f.diag.fetchComplete(ctx, url, resp.StatusCode, time.Since(start), nil)
	return result.Clone(), nil
}

// Forget drops url from the memo.
func (f *Fetcher) Forget(ctx context.Context, url string) error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Delete(ctx, url)
}

// Clear empties the memo.
func (f *Fetcher) Clear(ctx context.Context) error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Clear(ctx)
}
