// Package registry looks up organizations in the Norwegian entity
// register (Enhetsregisteret).
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Candidate is a registry hit that has not been saved anywhere.
type Candidate struct {
	Name       string
	OrgNumber  string
	Address    string
	PostalCode string
	City       string
}

var (
	// ErrBlankQuery is returned without contacting the registry.
	ErrBlankQuery = errors.New("search query is blank")
	// ErrLookupFailed is wrapped by every LookupError.
	ErrLookupFailed = errors.New("organization lookup failed")
)

// FailureKind narrows down why a lookup failed.
type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"
	FailureDecode    FailureKind = "decode"
)

// LookupError describes a failed registry call.
type LookupError struct {
	Kind       FailureKind
	StatusCode int
	Underlying error
}

func (e *LookupError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("registry lookup [%s]: status %d", e.Kind, e.StatusCode)
	case e.Underlying != nil:
		return fmt.Sprintf("registry lookup [%s]: %v", e.Kind, e.Underlying)
	default:
		return fmt.Sprintf("registry lookup [%s]", e.Kind)
	}
}

// Is lets errors.Is(err, ErrLookupFailed) match any LookupError.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookupFailed
}

func (e *LookupError) Unwrap() error {
	return e.Underlying
}

// Client queries the register over HTTP. It keeps no state between calls.
type Client struct {
	baseURL    string
	limit      int
	httpClient *http.Client
	log        *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimit caps the number of candidates returned for name searches.
func WithLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient returns a client for the register rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		limit:      10,
		httpClient: &http.Client{Timeout: timeout},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search resolves a free-text name or a nine digit organization number.
// An empty result is a valid answer and is not reported as an error.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrBlankQuery
	}

	if orgnr, ok := orgNumber(query); ok {
		return c.byOrgNumber(ctx, orgnr)
	}
	return c.byName(ctx, query)
}

func (c *Client) byName(ctx context.Context, name string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("navn", name)
	params.Set("size", strconv.Itoa(c.limit))

	body, status, err := c.get(ctx, "/enheter?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.fail(&LookupError{Kind: FailureStatus, StatusCode: status}, name)
	}

	var page searchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, c.fail(&LookupError{Kind: FailureDecode, Underlying: err}, name)
	}

	candidates := make([]Candidate, 0, len(page.Embedded.Units))
	for _, u := range page.Embedded.Units {
		candidates = append(candidates, u.candidate())
	}
	c.log.Debug("registry search", zap.String("query", name), zap.Int("hits", len(candidates)))
	return candidates, nil
}

func (c *Client) byOrgNumber(ctx context.Context, orgnr string) ([]Candidate, error) {
	body, status, err := c.get(ctx, "/enheter/"+orgnr)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone:
		c.log.Debug("registry search", zap.String("org_number", orgnr), zap.Int("hits", 0))
		return []Candidate{}, nil
	default:
		return nil, c.fail(&LookupError{Kind: FailureStatus, StatusCode: status}, orgnr)
	}

	var u unit
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, c.fail(&LookupError{Kind: FailureDecode, Underlying: err}, orgnr)
	}
	c.log.Debug("registry search", zap.String("org_number", orgnr), zap.Int("hits", 1))
	return []Candidate{u.candidate()}, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, c.fail(&LookupError{Kind: FailureTransport, Underlying: err}, path)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, c.fail(&LookupError{Kind: FailureTransport, Underlying: err}, path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, c.fail(&LookupError{Kind: FailureTransport, Underlying: err}, path)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) fail(err *LookupError, query string) error {
	c.log.Warn("registry lookup failed",
		zap.String("query", query),
		zap.String("kind", string(err.Kind)),
		zap.Int("status", err.StatusCode),
		zap.Error(err.Underlying),
	)
	return err
}

// orgNumber reports whether query is a nine digit organization number,
// tolerating the usual "999 888 777" grouping.
func orgNumber(query string) (string, bool) {
	compact := strings.ReplaceAll(query, " ", "")
	if len(compact) != 9 {
		return "", false
	}
	for _, r := range compact {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return compact, true
}
