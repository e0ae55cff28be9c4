// Package portal implements a session-based crawler for the co-op member
// portal. It performs the CSRF login dance, keeps cookies in a jar, and
// fetches the shift calendar page as raw HTML for the extractor.
package portal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/shiftmatch/shiftmatch-server/internal/ratelimit"
)

const (
	loginPath = "/services/login/"
	homePath  = "/services/home"

	// The portal blocks obvious bot agents, so we present a browser UA.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"
)

// Dialer opens portal sessions. Sessions share one rate limiter so
// concurrent crawls stay within the per-host budget.
type Dialer struct {
	base    *url.URL
	timeout time.Duration
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// NewDialer validates the portal origin and prepares a session factory.
// The limiter is owned by the caller.
func NewDialer(baseURL string, timeout time.Duration, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) (*Dialer, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse portal URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("portal URL must be absolute: %s", baseURL)
	}

	return &Dialer{
		base:    base,
		timeout: timeout,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// BaseOrigin returns the portal origin, used to resolve relative signup links.
func (d *Dialer) BaseOrigin() string {
	return d.base.Scheme + "://" + d.base.Host
}

// NewSession creates a client with a fresh cookie jar. Each member login
// must use its own session so cookies never cross accounts.
func (d *Dialer) NewSession() (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		base: d.base,
		http: &http.Client{
			Timeout: d.timeout,
			Jar:     jar,
		},
		limiter: d.limiter,
		logger:  d.logger,
	}, nil
}

// Client is a portal crawler holding one logged-in session.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// Login authenticates against the portal. It fetches the login page to pick
// up the CSRF token and session cookie, then posts the credentials.
func (c *Client) Login(ctx context.Context, username, password string) error {
	loginURL := c.base.JoinPath(loginPath).String()

	resp, err := c.get(ctx, loginURL)
	if err != nil {
		return err
	}
	body, err := c.readBody(resp)
	if err != nil {
		return err
	}

	form, err := parseLoginForm(body)
	if err != nil {
		return &FetchError{Reason: ReasonHTTPError, Message: "could not find login form", Err: err}
	}

	action := form.Action
	if action == "" {
		action = loginPath
	}
	next := form.Next
	if next == "" {
		next = homePath
	}

	data := url.Values{
		"csrfmiddlewaretoken": {form.CSRFToken},
		"username":            {username},
		"password":            {password},
		"next":                {next},
	}

	c.logger.Debug("portal login",
		"action", action,
		"csrf_present", form.CSRFToken != "",
	)

	resp, err = c.postForm(ctx, c.resolve(action), loginURL, data)
	if err != nil {
		return err
	}
	body, err = c.readBody(resp)
	if err != nil {
		return err
	}

	return classifyLoginResponse(resp.Request.URL, body)
}

// VerifySession checks that the session can still reach the member home page.
func (c *Client) VerifySession(ctx context.Context) error {
	resp, err := c.get(ctx, c.base.JoinPath(homePath).String())
	if err != nil {
		return err
	}
	defer drain(resp)

	if redirectedToLogin(resp.Request.URL) {
		return &FetchError{Reason: ReasonAuthExpired, Message: "session expired, redirected to login"}
	}
	return nil
}

// FetchShiftsPage retrieves the raw shift calendar HTML for the given day.
// The session is verified first so auth failures surface before parsing.
func (c *Client) FetchShiftsPage(ctx context.Context, day time.Time) (string, error) {
	if err := c.VerifySession(ctx); err != nil {
		return "", err
	}

	shiftsURL := c.base.JoinPath("/services/shifts/0/0/0/", day.Format("2006-01-02")+"/").String()
	c.logger.Debug("fetching shifts page", "url", shiftsURL)

	resp, err := c.get(ctx, shiftsURL)
	if err != nil {
		return "", err
	}

	if redirectedToLogin(resp.Request.URL) {
		drain(resp)
		return "", &FetchError{Reason: ReasonAuthExpired, Message: "session expired, redirected to login"}
	}
	if resp.StatusCode != http.StatusOK {
		drain(resp)
		return "", &FetchError{Reason: ReasonHTTPError, Message: fmt.Sprintf("shifts page returned HTTP %d", resp.StatusCode)}
	}

	body, err := c.readBody(resp)
	if err != nil {
		return "", err
	}

	c.logger.Debug("shifts page fetched", "bytes", len(body))
	return string(body), nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx, c.base.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Reason: ReasonNetworkError, Message: "portal request failed", Err: err}
	}
	return resp, nil
}

func (c *Client) postForm(ctx context.Context, rawURL, referer string, data url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx, c.base.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", referer)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Reason: ReasonNetworkError, Message: "portal request failed", Err: err}
	}
	return resp, nil
}

func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Reason: ReasonNetworkError, Message: "read portal response", Err: err}
	}
	return body, nil
}

// resolve makes a form action absolute against the portal origin.
func (c *Client) resolve(action string) string {
	if strings.HasPrefix(action, "http://") || strings.HasPrefix(action, "https://") {
		return action
	}
	return c.base.JoinPath(action).String()
}

func redirectedToLogin(finalURL *url.URL) bool {
	return finalURL != nil && strings.Contains(finalURL.Path, "/login/")
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
