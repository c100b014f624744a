package random

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://www.random.org"
	DefaultUserAgent = "randgen (github.com/randgen)"
	DefaultTimeout   = 60 * time.Second
)

// OrgClient fetches true random integers from the random.org HTTP API.
// It follows the client guidelines: long timeout, an identifying
// User-Agent and an optional quota check before every request.
// OrgClient does not serialise calls itself; wrap it with NewBatched.
type OrgClient struct {
	baseURL    string
	userAgent  string
	checkQuota bool
	httpClient *http.Client
}

type Option func(*OrgClient)

func WithBaseURL(u string) Option {
	return func(c *OrgClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

func WithUserAgent(ua string) Option {
	return func(c *OrgClient) {
		c.userAgent = ua
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *OrgClient) {
		c.httpClient.Timeout = d
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *OrgClient) {
		c.httpClient = hc
	}
}

// WithQuotaCheck makes every Ints call query the remaining bit quota first
// and refuse to proceed once it has gone negative.
func WithQuotaCheck(enabled bool) Option {
	return func(c *OrgClient) {
		c.checkQuota = enabled
	}
}

func NewOrgClient(options ...Option) *OrgClient {
	c := &OrgClient{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *OrgClient) Ints(ctx context.Context, lo, hi, count int) ([]int, error) {
	if count < 1 || count > MaxPerRequest {
		return nil, fmt.Errorf("random.org: count %d outside [1, %d]", count, MaxPerRequest)
	}
	if lo > hi {
		return nil, fmt.Errorf("random.org: min %d greater than max %d", lo, hi)
	}

	if c.checkQuota {
		quota, err := c.Quota(ctx)
		if err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "random.org quota", "bits", quota)
		if quota < 0 {
			return nil, fmt.Errorf("%w: random.org quota exhausted (%d bits)", ErrRandomSource, quota)
		}
	}

	params := url.Values{}
	params.Set("num", strconv.Itoa(count))
	params.Set("min", strconv.Itoa(lo))
	params.Set("max", strconv.Itoa(hi))
	params.Set("col", "1")
	params.Set("base", "10")
	params.Set("format", "plain")
	params.Set("rnd", "new")

	body, err := c.get(ctx, "/integers/", params)
	if err != nil {
		return nil, err
	}

	ints := make([]int, 0, count)
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed integer %q", ErrRandomSource, line)
		}
		ints = append(ints, v)
	}
	if len(ints) != count {
		return nil, fmt.Errorf("%w: asked for %d integers, got %d", ErrRandomSource, count, len(ints))
	}
	return ints, nil
}

// Quota returns the number of random bits left for this client's IP address.
func (c *OrgClient) Quota(ctx context.Context) (int64, error) {
	params := url.Values{}
	params.Set("format", "plain")

	body, err := c.get(ctx, "/quota/", params)
	if err != nil {
		return 0, err
	}
	quota, err := strconv.ParseInt(strings.TrimSpace(body), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed quota %q", ErrRandomSource, body)
	}
	return quota, nil
}

func (c *OrgClient) get(ctx context.Context, endpoint string, params url.Values) (string, error) {
	reqURL := c.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrRandomSource, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: request returned a %d status code: %s", ErrRandomSource, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return string(body), nil
}
