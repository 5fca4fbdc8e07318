package ics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "ChannelManager-ICS/1.0"

// FetchConfig bounds one outbound calendar pull.
type FetchConfig struct {
	ConnectTimeout time.Duration
	TotalTimeout   time.Duration
	MaxRedirects   int
}

// DefaultFetchConfig mirrors the limits the deployed importers run with.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		ConnectTimeout: 10 * time.Second,
		TotalTimeout:   25 * time.Second,
		MaxRedirects:   3,
	}
}

// FetchResult is the raw outcome of a pull, before parsing.
type FetchResult struct {
	Body   string
	Status int
	Bytes  int
}

// Fetcher downloads remote calendar feeds over http or https.
type Fetcher struct {
	client *resty.Client
}

func NewFetcher(cfg FetchConfig) *Fetcher {
	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
	}
	client := resty.New().
		SetTransport(transport).
		SetTimeout(cfg.TotalTimeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(cfg.MaxRedirects)).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/calendar, text/plain, */*")
	return &Fetcher{client: client}
}

// Fetch retrieves the feed at rawURL. Non-2xx responses and bodies that do
// not look like a calendar are errors; the result still carries whatever
// status and body came back so callers can record them.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (FetchResult, error) {
	if err := ValidateFeedURL(rawURL); err != nil {
		return FetchResult{}, err
	}
	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return FetchResult{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	res := FetchResult{
		Body:   string(resp.Body()),
		Status: resp.StatusCode(),
		Bytes:  len(resp.Body()),
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return res, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode())
	}
	if !strings.Contains(res.Body, "BEGIN:VCALENDAR") {
		return res, ErrNotACalendar
	}
	return res, nil
}

// ValidateFeedURL accepts only absolute http and https URLs.
func ValidateFeedURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ErrBadURL
	}
	switch u.Scheme {
	case "http", "https":
		return nil
	default:
		return ErrBadURL
	}
}
