// Package holidays provides the public-holiday oracle used by the SGK
// compliance engine. Holidays for a whole calendar year are fetched in a
// single request against the Nager.Date API and cached, so repeated
// date checks cost at most one network round-trip per year.
package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the public Nager.Date instance.
const DefaultBaseURL = "https://date.nager.at"

// publicHoliday mirrors one entry of the Nager.Date response.
type publicHoliday struct {
	Date        string   `json:"date"` // "2006-01-02"
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Counties    []string `json:"counties"`
	Types       []string `json:"types"`
}

// Client caches nationwide public holidays per calendar year.
// Safe for concurrent use. Fails open: if the API is unreachable the
// affected year is treated as holiday-free — under-shifting a deadline
// beats blocking the compliance check.
type Client struct {
	httpClient *http.Client
	baseURL    string
	country    string

	mu    sync.RWMutex
	cache map[int]map[string]struct{} // year → set of "2006-01-02" dates
}

// NewClient creates a holiday client for the given country code
// (e.g. "TR"). Pass an empty baseURL to use the public Nager.Date API.
func NewClient(baseURL, countryCode string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		country:    countryCode,
		cache:      make(map[int]map[string]struct{}),
	}
}

// IsPublicHoliday reports whether the given date is a nationwide public
// holiday. Never fails: on any fetch problem the answer is false.
func (c *Client) IsPublicHoliday(ctx context.Context, date time.Time) bool {
	days := c.holidaysForYear(ctx, date.Year())
	_, ok := days[date.Format("2006-01-02")]
	return ok
}

// ClearCache drops all cached years. Mainly for tests.
func (c *Client) ClearCache() {
	c.mu.Lock()
	c.cache = make(map[int]map[string]struct{})
	c.mu.Unlock()
}

// holidaysForYear returns the cached holiday set for a year, fetching it
// on first use. A failed fetch caches an empty set so a flaky API is
// asked at most once per year per process.
func (c *Client) holidaysForYear(ctx context.Context, year int) map[string]struct{} {
	c.mu.RLock()
	days, ok := c.cache[year]
	c.mu.RUnlock()
	if ok {
		return days
	}

	days, err := c.fetchYear(ctx, year)
	if err != nil {
		log.Printf("[holidays] fetch %d failed, treating year as holiday-free: %v", year, err)
		days = map[string]struct{}{}
	}

	c.mu.Lock()
	c.cache[year] = days
	c.mu.Unlock()
	return days
}

// fetchYear requests all public holidays for one year and keeps only
// nationwide entries of type "Public". Subdivision-scoped or
// observance-type entries do not shift filing deadlines.
func (c *Client) fetchYear(ctx context.Context, year int) (map[string]struct{}, error) {
	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", c.baseURL, year, c.country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned status %d", resp.StatusCode)
	}

	var entries []publicHoliday
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode holidays: %w", err)
	}

	days := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if !e.Global || len(e.Counties) > 0 {
			continue
		}
		if !hasPublicType(e.Types) {
			continue
		}
		days[e.Date] = struct{}{}
	}
	return days, nil
}

func hasPublicType(types []string) bool {
	// Older API versions omit the types field entirely; treat those
	// entries as public.
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == "Public" {
			return true
		}
	}
	return false
}
