package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"multichain_wallet/internal/domain"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxLoggedBodyLength = 512

// httpTransport is the JSON-over-HTTP layer shared by the Bitcoin and Solana
// backends. Transport failures and non-2xx statuses wrap domain.ErrNetwork,
// undecodable bodies wrap domain.ErrBlockchain.
type httpTransport struct {
	client  *fasthttp.Client
	timeout time.Duration
	limiter *rate.Limiter
}

func newHTTPTransport(timeout time.Duration, limiter *rate.Limiter) *httpTransport {
	return &httpTransport{
		client: &fasthttp.Client{
			Name:                "multichain-wallet",
			MaxIdleConnDuration: 30 * time.Second,
		},
		timeout: timeout,
		limiter: limiter,
	}
}

func (t *httpTransport) getJSON(ctx context.Context, url string, out any) error {
	return t.do(ctx, fasthttp.MethodGet, url, nil, out)
}

func (t *httpTransport) postJSON(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request for %s: %w", url, err)
	}
	return t.do(ctx, fasthttp.MethodPost, url, body, out)
}

func (t *httpTransport) do(ctx context.Context, method, url string, body []byte, out any) error {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", domain.ErrNetwork, err)
		}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(body)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = t.client.DoDeadline(req, resp, deadline)
	} else if t.timeout > 0 {
		err = t.client.DoTimeout(req, resp, t.timeout)
	} else {
		err = t.client.Do(req, resp)
	}
	if err != nil {
		return fmt.Errorf("%w: request to %s failed: %v", domain.ErrNetwork, url, err)
	}

	rawBody := resp.Body()
	if status := resp.StatusCode(); status < 200 || status >= 300 {
		return fmt.Errorf("%w: %s returned status %d: %s", domain.ErrNetwork, url, status, truncate(rawBody))
	}

	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("%w: failed to parse response from %s: %v. Body: %s", domain.ErrBlockchain, url, err, truncate(rawBody))
	}
	return nil
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxLoggedBodyLength {
		return s[:maxLoggedBodyLength] + "..."
	}
	return s
}
