// Package geocode is a client for a Nominatim-compatible reverse-geocoding
// service. Lookups are memoised in an LRU cache keyed by coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"github.com/paulmach/orb"
)

// ErrNoAddress is returned when the service answers but has no address for
// the requested coordinates.
var ErrNoAddress = errors.New("no address for location")

// Address is the subset of a reverse-geocode address used to build a
// display name.
type Address struct {
	Road          string `json:"road,omitempty"`
	Neighbourhood string `json:"neighbourhood,omitempty"`
	City          string `json:"city,omitempty"`
	Town          string `json:"town,omitempty"`
	County        string `json:"county,omitempty"`
}

type reverseResponse struct {
	Address *Address `json:"address"`
	Error   string   `json:"error"`
}

// DisplayName builds "road, city" from an address, falling back to the
// neighbourhood for the first part and to town then county for the second.
func DisplayName(a Address) string {
	name := a.Road
	if name == "" {
		name = a.Neighbourhood
	}
	switch {
	case a.City != "":
		name += ", " + a.City
	case a.Town != "":
		name += ", " + a.Town
	case a.County != "":
		name += ", " + a.County
	}
	return name
}

// Options configures a Client.
type Options struct {
	// BaseURL is the service root, e.g. https://nominatim.openstreetmap.org.
	BaseURL string
	// UserAgent is sent with every request; Nominatim rejects anonymous clients.
	UserAgent string
	// Timeout bounds each HTTP request. Zero means no client-side timeout.
	Timeout time.Duration
	// CacheSize is the number of coordinates to remember. Zero disables caching.
	CacheSize int
	// CacheTTL is how long a cached address stays valid.
	CacheTTL time.Duration
}

// Client performs reverse-geocode lookups.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	cache     gcache.Cache
	log       *slog.Logger
}

// NewClient constructs a Client. Pass a nil httpClient to use a default one
// with opts.Timeout.
func NewClient(opts Options, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	c := &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		http:      httpClient,
		log:       log,
	}
	if opts.CacheSize > 0 {
		b := gcache.New(opts.CacheSize).LRU()
		if opts.CacheTTL > 0 {
			b = b.Expiration(opts.CacheTTL)
		}
		c.cache = b.Build()
	}
	return c
}

// Reverse returns the address at pt ([lon, lat]).
func (c *Client) Reverse(ctx context.Context, pt orb.Point) (Address, error) {
	key := cacheKey(pt)
	if c.cache != nil {
		if v, err := c.cache.Get(key); err == nil {
			return v.(Address), nil
		}
	}

	addr, err := c.fetch(ctx, pt)
	if err != nil {
		return Address{}, fmt.Errorf("geocode.Client.Reverse: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(key, addr); err != nil {
			c.log.Debug("geocode cache set failed", "key", key, "error", err)
		}
	}
	return addr, nil
}

func (c *Client) fetch(ctx context.Context, pt orb.Point) (Address, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(pt.Lat(), 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(pt.Lon(), 'f', -1, 64))
	u := c.baseURL + "/reverse?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Address{}, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.log.DebugContext(ctx, "reverse geocode request", "url", u)
	resp, err := c.http.Do(req)
	if err != nil {
		return Address{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Address{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, fmt.Errorf("decode response: %w", err)
	}
	if body.Address == nil {
		if body.Error != "" {
			return Address{}, fmt.Errorf("%w: %s", ErrNoAddress, body.Error)
		}
		return Address{}, ErrNoAddress
	}
	return *body.Address, nil
}

// cacheKey rounds to roughly 10 cm, well below reverse-geocode resolution.
func cacheKey(pt orb.Point) string {
	return strconv.FormatFloat(pt.Lat(), 'f', 6, 64) + "," + strconv.FormatFloat(pt.Lon(), 'f', 6, 64)
}
