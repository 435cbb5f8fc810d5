// internal/countries/countries.go
//
// Country catalog for the phone-prefix picker.
//
// Context
// -------
// The landing page's phone input needs a country list with dial codes and
// flags.  The catalog comes from the public REST Countries API, trimmed
// to the four fields the picker uses, filtered to countries carrying a
// dial prefix, and sorted by name.  The upstream list changes on the
// order of years, so responses are cached for a day; when the upstream is
// unreachable and the cache is cold, a small static fallback keeps the
// picker usable.

package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/trixgeo/trix-site/internal/cache"
)

const (
	defaultBaseURL = "https://restcountries.com"
	catalogPath    = "/v3.1/all?fields=name,cca2,idd,flag"
	cacheKey       = "catalog"
	cacheTTL       = 24 * time.Hour
)

// Country is one picker entry.
type Country struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	DialCode string `json:"dialCode"`
	Flag     string `json:"flag"`
}

// restCountry mirrors the slice of the upstream document we read.
type restCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2 string `json:"cca2"`
	IDD  struct {
		Root     string   `json:"root"`
		Suffixes []string `json:"suffixes"`
	} `json:"idd"`
	Flag string `json:"flag"`
}

// fallback keeps the picker alive when the upstream is down and nothing
// is cached yet.
var fallback = []Country{
	{Name: "México", Code: "MX", DialCode: "+52", Flag: "🇲🇽"},
	{Name: "Estados Unidos", Code: "US", DialCode: "+1", Flag: "🇺🇸"},
	{Name: "España", Code: "ES", DialCode: "+34", Flag: "🇪🇸"},
	{Name: "Colombia", Code: "CO", DialCode: "+57", Flag: "🇨🇴"},
	{Name: "Argentina", Code: "AR", DialCode: "+54", Flag: "🇦🇷"},
}

// Client fetches and caches the catalog.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.LRU
}

// New returns a Client against the public REST Countries API.
func New() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache.New(4),
	}
}

// WithBaseURL overrides the upstream, for tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Catalog returns the country list, serving from cache when fresh.  A
// failed refresh never fails the caller: it falls back to the static
// list and logs the cause.
func (c *Client) Catalog(ctx context.Context) []Country {
	if v, ok := c.cache.Get(cacheKey); ok {
		return v.([]Country)
	}

	list, err := c.fetch(ctx)
	if err != nil {
		zap.S().Warnw("country catalog refresh failed, using fallback", "err", err)
		return fallback
	}
	c.cache.AddTTL(cacheKey, list, cacheTTL)
	return list
}

func (c *Client) fetch(ctx context.Context) ([]Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+catalogPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("countries: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("countries: upstream status %d", resp.StatusCode)
	}

	var raw []restCountry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("countries: decode: %w", err)
	}

	out := make([]Country, 0, len(raw))
	for _, rc := range raw {
		// Entries without a dial prefix are useless to the picker.
		if rc.IDD.Root == "" || len(rc.IDD.Suffixes) == 0 {
			continue
		}
		out = append(out, Country{
			Name:     rc.Name.Common,
			Code:     rc.CCA2,
			DialCode: rc.IDD.Root + rc.IDD.Suffixes[0],
			Flag:     rc.Flag,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
