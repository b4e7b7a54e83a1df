// 包 fetch 封装 HTTP 客户端（代理/超时/重试），用于抓取订阅源。
package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
)

// DefaultUA 可通过环境变量 BLOG_UA 或 Options.UserAgent 覆盖。
const DefaultUA = "go-blog-listing/1.0 (+feed import)"

// Client 为带重试的 HTTP 客户端。
type Client struct {
	http    *http.Client
	retry   int
	ua      string
	backoff time.Duration
}

// Options 为客户端构造参数。
type Options struct {
	ProxyHTTP  string
	ProxyHTTPS string
	Timeout    time.Duration
	Retry      int
	UserAgent  string
	// Backoff 为第一次重试前的等待，后续线性递增；默认 300ms。
	Backoff time.Duration
}

// New 创建客户端；代理地址非法时返回错误。
func New(opts Options) (*Client, error) {
	proxyHTTP, err := parseProxy(opts.ProxyHTTP)
	if err != nil {
		return nil, err
	}
	proxyHTTPS, err := parseProxy(opts.ProxyHTTPS)
	if err != nil {
		return nil, err
	}
	transport := &http.Transport{
		Proxy: func(req *http.Request) (*url.URL, error) {
			if req.URL.Scheme == "https" && proxyHTTPS != nil {
				return proxyHTTPS, nil
			}
			if req.URL.Scheme == "http" && proxyHTTP != nil {
				return proxyHTTP, nil
			}
			return http.ProxyFromEnvironment(req)
		},
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 300 * time.Millisecond
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = os.Getenv("BLOG_UA")
	}
	if ua == "" {
		ua = DefaultUA
	}
	return &Client{
		http:    &http.Client{Transport: transport, Timeout: opts.Timeout},
		retry:   max(opts.Retry, 0),
		ua:      ua,
		backoff: opts.Backoff,
	}, nil
}

func parseProxy(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse proxy %s: %w", raw, err)
	}
	return u, nil
}

// Get 请求非 2xx 或网络错误时按线性退避重试，成功时调用方负责关闭 Body。
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	var lastErr error
	for i := 0; i <= c.retry; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(i) * c.backoff):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("new request: %w", err)
		}
		req.Header.Set("User-Agent", c.ua)
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		resp.Body.Close()
		lastErr = fmt.Errorf("http status: %s", resp.Status)
	}
	return nil, lastErr
}
