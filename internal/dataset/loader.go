// Package dataset loads the dissemination-area feature collection and
// republishes it fully reprojected into WGS84. A load is single-shot and
// all-or-nothing: callers never see a partially transformed dataset.
package dataset

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/reproject"
)

// DestCRSName is the CRS identifier republished on every transformed
// dataset.
const DestCRSName = "EPSG:4326"

// Loader fetches and reprojects datasets. The zero number of workers means
// a small fixed default.
type Loader struct {
	client  *http.Client
	source  int
	dest    int
	workers int
}

// NewLoader creates a Loader using the given HTTP client (nil means
// http.DefaultClient) and the fixed source/destination systems.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		client:  client,
		source:  reproject.SourceEPSG,
		dest:    reproject.DestEPSG,
		workers: 4,
	}
}

// Load fetches the dataset over HTTP, parses it, and returns the fully
// transformed result. Not cached, not retried.
func (l *Loader) Load(ctx context.Context, url string) (*geojson.Dataset, error) {
	log := zap.L().With(zap.String("component", "dataset.loader"))
	log.Info("fetching dataset", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	var ds geojson.Dataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		return nil, &ParseError{Err: err}
	}

	return l.Transform(ctx, &ds)
}

// LoadFile reads the dataset from a local file instead of the network.
func (l *Loader) LoadFile(ctx context.Context, path string) (*geojson.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FetchError{URL: path, Err: err}
	}

	var ds geojson.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, &ParseError{Err: err}
	}

	return l.Transform(ctx, &ds)
}

// Transform reprojects every feature of ds into the destination system and
// republishes the CRS metadata. The input dataset is never modified.
func (l *Loader) Transform(ctx context.Context, ds *geojson.Dataset) (*geojson.Dataset, error) {
	tr, err := reproject.New(l.source, l.dest)
	if err != nil {
		return nil, &ReprojectionError{Err: err}
	}

	out := &geojson.Dataset{
		Type:     ds.Type,
		Name:     ds.Name,
		CRS:      geojson.NamedCRS(DestCRSName),
		Features: make([]geojson.Feature, len(ds.Features)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i := range ds.Features {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out.Features[i] = transformFeature(tr, ds.Features[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &ReprojectionError{Err: err}
	}

	zap.L().Info("dataset transformed",
		zap.Int("features", len(out.Features)),
		zap.String("crs", DestCRSName),
	)
	return out, nil
}

// transformFeature returns a transformed copy of f: fresh attribute map,
// fresh geometry, original untouched.
func transformFeature(tr *reproject.Transformer, f geojson.Feature) geojson.Feature {
	out := geojson.Feature{
		Type:     f.Type,
		Geometry: tr.Geometry(f.Geometry),
	}
	if f.Properties != nil {
		out.Properties = make(map[string]any, len(f.Properties))
		for k, v := range f.Properties {
			out.Properties[k] = v
		}
	}
	return out
}
