// Package integrations provides the shared HTTP plumbing for the external
// services tastopo talks to: the ListMap ArcGIS services and the NOAA
// geomagnetism calculator.
//
// Service clients embed [Client], which handles URL construction, default
// query parameters, response caching, and mapping failures onto the
// application's error codes. Requests are synchronous and are not retried;
// a failed export is simply re-run by the user.
package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/tastopo/tastopo/pkg/errors"
	"github.com/tastopo/tastopo/pkg/httputil"
)

const httpTimeout = 60 * time.Second

// Client provides shared HTTP functionality for service clients: default
// query parameters, caching, and typed error mapping.
type Client struct {
	http     *http.Client
	baseURL  string
	cache    *httputil.Cache
	defaults url.Values
}

// NewClient creates a Client rooted at baseURL. Default params are merged
// into every request (request params win on conflict). The cache may be nil
// to disable caching.
func NewClient(baseURL string, cache *httputil.Cache, defaults url.Values) *Client {
	return &Client{
		http:     &http.Client{Timeout: httpTimeout},
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		cache:    cache,
		defaults: defaults,
	}
}

// Cached retrieves a value from cache or executes fetch and caches the
// result. If refresh is true the cache is bypassed and fetch always runs.
// The fetch function should populate v; on success, v is stored.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if ok, _ := c.cache.Get(key, v); ok {
			return nil
		}
	}
	if err := fetch(); err != nil {
		return err
	}
	_ = c.cache.Set(key, v)
	return nil
}

// GetJSON performs a GET against path and JSON-decodes the response into v.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, v any) error {
	body, err := c.doRequest(ctx, path, params)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "decoding response from %s", path)
	}
	return nil
}

// GetBytes performs a GET against path and returns the raw response body.
// Used for image endpoints.
func (c *Client) GetBytes(ctx context.Context, path string, params url.Values) ([]byte, error) {
	body, err := c.doRequest(ctx, path, params)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "reading response from %s", path)
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values) (io.ReadCloser, error) {
	u := c.baseURL
	if path != "" {
		u += "/" + strings.TrimPrefix(path, "/")
	}

	merged := url.Values{}
	for k, vs := range c.defaults {
		merged[k] = vs
	}
	for k, vs := range params {
		merged[k] = vs
	}
	if len(merged) > 0 {
		u += "?" + merged.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "building request for %s", path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "requesting %s", path)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.New(errors.ErrCodeNetwork, "%s returned status %d", path, resp.StatusCode)
	}
	return resp.Body, nil
}

// CacheKey builds a stable cache key from the given parts.
func CacheKey(parts ...any) string {
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = fmt.Sprint(p)
	}
	return strings.Join(strs, "|")
}

// EncodeParams flattens url.Values into a deterministic string, suitable
// for inclusion in a cache key.
func EncodeParams(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(params[k], ","))
		b.WriteByte('&')
	}
	return b.String()
}
