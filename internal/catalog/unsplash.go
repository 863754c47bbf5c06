package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jsabazova/suburb-swipe/internal/game"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentLookups = 4

// Unsplash decorates a static catalog with photos found through the Unsplash
// search API. Without an access key it uses keyless source URLs instead.
type Unsplash struct {
	AccessKey string
	BaseURL   string
	base      Static
	http      *http.Client
}

func NewUnsplash(accessKey, baseURL string, base Static) *Unsplash {
	if baseURL == "" {
		baseURL = "https://api.unsplash.com"
	}
	return &Unsplash{
		AccessKey: accessKey,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		base:      base,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (u *Unsplash) Title() string { return u.base.Title() }

// Load looks up one photo per item concurrently. A failed lookup keeps the
// curated photo; only cancellation of ctx fails the load.
func (u *Unsplash) Load(ctx context.Context) ([]game.CatalogItem, error) {
	items, err := u.base.Load(ctx)
	if err != nil {
		return nil, err
	}
	if u.AccessKey == "" {
		for i := range items {
			items[i].ImageURL = SourceImage(items[i].Name)
		}
		return items, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i := range items {
		g.Go(func() error {
			img, err := u.Search(gctx, items[i].Name+" melbourne")
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn().Err(err).Str("item", items[i].ID).Msg("image lookup failed, using curated image")
				return nil
			}
			items[i].ImageURL = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load images: %w", err)
	}
	return items, nil
}

// Search returns the first landscape photo URL matching query.
func (u *Unsplash) Search(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", "1")
	q.Set("orientation", "landscape")
	req, err := http.NewRequestWithContext(ctx, "GET", u.BaseURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Client-ID "+u.AccessKey)
	req.Header.Set("Accept-Version", "v1")
	resp, err := u.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("unsplash status %d", resp.StatusCode)
	}
	var out struct {
		Results []struct {
			URLs struct {
				Regular string `json:"regular"`
			} `json:"urls"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Results) == 0 || out.Results[0].URLs.Regular == "" {
		return "", errors.New("no results")
	}
	return out.Results[0].URLs.Regular, nil
}
