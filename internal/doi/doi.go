// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package doi fetches BibTeX records by DOI and adds them to bibliography
// files.
package doi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/citefix/internal/bibfile"
	"github.com/pdiddy/citefix/internal/bibkey"
	"github.com/pdiddy/citefix/internal/refcache"
	"github.com/pdiddy/citefix/pkg/types"
)

var (
	// ErrNotFound means the DOI resolver has no reference for the DOI.
	ErrNotFound = errors.New("no reference found")

	// ErrInvalidDOI means the identifier is not a DOI.
	ErrInvalidDOI = errors.New("invalid DOI")
)

// doiBase is declared as a var so tests can substitute an httptest server.
var doiBase = "https://doi.org/"

// doiPattern matches DOIs: "10.1523/JNEUROSCI.1234-14.2014".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi.org/",
	"doi:",
}

// Normalize strips resolver URL and "doi:" prefixes from id and checks that
// what remains is a DOI.
func Normalize(id string) (string, error) {
	s := strings.TrimSpace(id)
	for _, p := range doiPrefixes {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	if !doiPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDOI, id)
	}
	return s, nil
}

// Client looks references up on doi.org.
type Client struct {
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	cache     *refcache.Cache
	strategy  types.CollisionStrategy
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCache consults and fills cache around network lookups.
func WithCache(cache *refcache.Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithStrategy sets the first collision phase used by AddReferences.
func WithStrategy(s types.CollisionStrategy) Option {
	return func(c *Client) { c.strategy = s }
}

// NewClient creates a Client from the lookup configuration. Network lookups
// are paced to cfg.Rate per second; a non-positive rate means no limit.
func NewClient(cfg types.LookupConfig, opts ...Option) *Client {
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	ua := cfg.UserAgent
	if cfg.Mailto != "" {
		ua = fmt.Sprintf("%s (mailto:%s)", ua, cfg.Mailto)
	}

	c := &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		userAgent: ua,
		limiter:   rate.NewLimiter(limit, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup fetches the BibTeX record for id. It returns ErrNotFound when the
// resolver answers 404 or returns no entries. The entry keeps the key the
// resolver assigned; use KeyFor to rekey it.
func (c *Client) Lookup(ctx context.Context, id string) (*types.Entry, error) {
	doi, err := Normalize(id)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		rec, ok, err := c.cache.Get(ctx, doi)
		if err != nil {
			return nil, err
		}
		if ok {
			return firstEntry(doi, []byte(rec.BibTeX))
		}
	}

	body, err := c.fetch(ctx, doi)
	if err != nil {
		return nil, err
	}
	e, err := firstEntry(doi, body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, doi, string(body)); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (c *Client) fetch(ctx context.Context, doi string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, doiBase+doi, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/x-bibtex")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("DOI request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", doi, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("DOI resolver returned HTTP %d for %s", resp.StatusCode, doi)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// firstEntry parses body and returns its first entry, recording doi on it
// when the record does not carry one.
func firstEntry(doi string, body []byte) (*types.Entry, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%s: %w", doi, ErrNotFound)
	}
	bib, err := bibfile.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing reference for %s: %w", doi, err)
	}
	if bib.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", doi, ErrNotFound)
	}
	e := bib.Entries[0]
	if _, ok := e.Field("doi"); !ok {
		e.SetField("doi", doi)
	}
	return e, nil
}

// KeyFor returns the AuthorYear key for e, e.g. "Varela2014".
func KeyFor(e *types.Entry) (string, error) {
	return bibkey.AuthorYear(e)
}
