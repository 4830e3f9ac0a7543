package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TileProxy proxies basemap raster tiles from an upstream tile server.
// Upstream requests are rate limited so the proxy stays within the tile
// provider's usage policy.
type TileProxy struct {
	baseURL string
	format  string
	client  *http.Client
	cache   *TileCache
	limiter *rate.Limiter
}

// NewTileProxy creates a basemap tile proxy.
func NewTileProxy(baseURL, format string, cache *TileCache, perSecond float64, burst int) *TileProxy {
	return &TileProxy{
		baseURL: baseURL,
		format:  format,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:   cache,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Fetch retrieves a basemap tile from the cache or the upstream server.
func (p *TileProxy) Fetch(ctx context.Context, z, x, y int) ([]byte, string, error) {
	if p.cache != nil {
		if cached := p.cache.Get(z, x, y); cached != nil {
			return cached, p.contentType(), nil
		}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, "", eris.Wrap(err, "dashboard: basemap rate limiter wait")
	}

	url := fmt.Sprintf("%s/%d/%d/%d.%s", p.baseURL, z, x, y, p.format)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", eris.Wrap(err, "dashboard: create basemap request")
	}
	req.Header.Set("User-Agent", "earthquake-resilience-dashboard/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", eris.Wrap(err, "dashboard: fetch basemap tile")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", eris.Errorf("dashboard: basemap upstream returned %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", eris.Wrap(err, "dashboard: read basemap tile body")
	}

	if p.cache != nil {
		p.cache.Put(z, x, y, data)
	}

	zap.L().Debug("dashboard: fetched basemap tile", zap.String("url", url), zap.Int("bytes", len(data)))
	return data, p.contentType(), nil
}

func (p *TileProxy) contentType() string {
	switch p.format {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
