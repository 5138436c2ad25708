package photon_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/manzanit0/photon/pkg/photon"
	"github.com/manzanit0/photon/pkg/whttp"
)

type fakePlace struct {
	lon, lat float64
	osmType  string
	typ      string
	name     string
	country  string
	state    string
}

// translations stand in for the service's localised names, keyed by lang.
var translations = map[string]map[string]string{
	"de": {"Germany": "Deutschland", "Bavaria": "Bayern", "United States": "Vereinigte Staaten"},
}

// fakePhoton emulates the parts of the service the client relies on: location
// bias ranking, bbox, layer and limit filtering, lang for names, and a message
// body for bad requests.
func fakePhoton(t *testing.T, places map[string][]fakePlace) (*httptest.Server, chan string) {
	t.Helper()

	queries := make(chan string, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.RawQuery
		q := r.URL.Query()

		var results []fakePlace
		switch r.URL.Path {
		case "/api":
			if q.Get("q") == "" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"message": "missing search term 'q': /?q=berlin"}`))
				return
			}
			results = places[strings.ToLower(q.Get("q"))]
		case "/reverse":
			results = places[q.Get("lat")+","+q.Get("lon")]
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}

		if q.Get("bbox") != "" {
			bbox, err := photon.ParseBoundingBox(q.Get("bbox"))
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"message": "invalid bbox"}`))
				return
			}

			var inside []fakePlace
			for _, p := range results {
				if p.lon >= bbox.SouthWest.Lon && p.lon <= bbox.NorthEast.Lon &&
					p.lat >= bbox.SouthWest.Lat && p.lat <= bbox.NorthEast.Lat {
					inside = append(inside, p)
				}
			}
			results = inside
		}

		if r.URL.Path == "/api" && q.Get("lat") != "" {
			lat, _ := strconv.ParseFloat(q.Get("lat"), 64)
			lon, _ := strconv.ParseFloat(q.Get("lon"), 64)

			ranked := append([]fakePlace(nil), results...)
			sort.SliceStable(ranked, func(i, j int) bool {
				return distance(ranked[i], lat, lon) < distance(ranked[j], lat, lon)
			})
			results = ranked
		}

		if layers := q["layer"]; len(layers) > 0 {
			var filtered []fakePlace
			for _, p := range results {
				for _, l := range layers {
					if p.typ == l {
						filtered = append(filtered, p)
						break
					}
				}
			}
			results = filtered
		}

		if l := q.Get("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"message": "invalid limit"}`))
				return
			}
			if n < len(results) {
				results = results[:n]
			}
		}

		names := translations[q.Get("lang")]
		features := make([]map[string]any, 0, len(results))
		for i, p := range results {
			if v, ok := names[p.country]; ok {
				p.country = v
			}
			if v, ok := names[p.state]; ok {
				p.state = v
			}

			features = append(features, map[string]any{
				"type":     "Feature",
				"geometry": map[string]any{"type": "Point", "coordinates": []float64{p.lon, p.lat}},
				"properties": map[string]any{
					"osm_id":    1000 + i,
					"osm_type":  p.osmType,
					"osm_key":   "place",
					"osm_value": p.typ,
					"type":      p.typ,
					"name":      p.name,
					"country":   p.country,
					"state":     p.state,
				},
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"type": "FeatureCollection", "features": features})
	}))
	t.Cleanup(srv.Close)

	return srv, queries
}

func distance(p fakePlace, lat, lon float64) float64 {
	return math.Hypot(p.lat-lat, p.lon-lon)
}

var places = map[string][]fakePlace{
	"munich": {
		{11.5754, 48.1371, "R", "city", "Munich", "Germany", "Bavaria"},
		{-98.8485, 48.6701, "N", "city", "Munich", "United States", "North Dakota"},
		{11.5580, 48.1402, "W", "street", "Munich Street", "Germany", "Bavaria"},
		{-83.0, 40.0, "N", "locality", "Munich", "United States", "Ohio"},
	},
	"bayern": {
		{11.4, 48.9, "R", "state", "Bayern", "Deutschland", ""},
		{11.5, 48.1, "W", "street", "Bayernstraße", "Deutschland", "Bayern"},
		{12.1, 49.0, "N", "house", "Hotel Bayern", "Deutschland", "Bayern"},
	},
	"48.14368,11.58775": {
		{11.58775, 48.14368, "N", "house", "Hofgarten", "Germany", "Bavaria"},
	},
}

func TestNewClient_TrailingSlash(t *testing.T) {
	a := photon.NewClient("https://example.com/")
	b := photon.NewClient("https://example.com")

	if a.ForwardURL() != b.ForwardURL() || a.ReverseURL() != b.ReverseURL() {
		t.Errorf("endpoints differ: %s %s vs %s %s", a.ForwardURL(), a.ReverseURL(), b.ForwardURL(), b.ReverseURL())
	}

	if a.ForwardURL() != "https://example.com/api" {
		t.Errorf("got forward url %s", a.ForwardURL())
	}

	if a.ReverseURL() != "https://example.com/reverse" {
		t.Errorf("got reverse url %s", a.ReverseURL())
	}
}

func TestNewDefaultClient(t *testing.T) {
	c := photon.NewDefaultClient()
	if c.ForwardURL() != photon.DefaultBaseURL+"/api" {
		t.Errorf("got %s", c.ForwardURL())
	}
}

func TestForwardSearch(t *testing.T) {
	srv, queries := fakePhoton(t, places)
	client := photon.NewClient(srv.URL, photon.WithHTTPClient(srv.Client()))
	ctx := context.Background()

	all, err := client.ForwardSearch(ctx, "munich", nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	<-queries

	if len(all) == 0 {
		t.Fatalf("expected results for munich")
	}

	if all[0].Coords != photon.NewLatLon(48.1371, 11.5754) {
		t.Errorf("got coords %v", all[0].Coords)
	}

	limited, err := client.ForwardSearch(ctx, "munich", &photon.ForwardFilter{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if q := <-queries; q != "q=munich&limit=2" {
		t.Errorf("got query %s", q)
	}

	if len(limited) != 2 {
		t.Errorf("expected 2 results, got %d", len(limited))
	}

	if len(limited) > len(all) {
		t.Errorf("limited search returned more results than unfiltered: %d > %d", len(limited), len(all))
	}
}

func TestForwardSearch_Layers(t *testing.T) {
	srv, queries := fakePhoton(t, places)
	client := photon.NewClient(srv.URL+"/", photon.WithHTTPClient(srv.Client()))

	results, err := client.ForwardSearch(context.Background(), "bayern", &photon.ForwardFilter{
		Layers: []photon.Layer{photon.LayerState},
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if q := <-queries; q != "q=bayern&layer=state" {
		t.Errorf("got query %s", q)
	}

	if len(results) == 0 {
		t.Fatalf("expected at least one state")
	}

	for _, r := range results {
		if r.Type != "state" {
			t.Errorf("got type %s, expected state", r.Type)
		}
	}
}

func TestForwardSearch_NoMatches(t *testing.T) {
	srv, _ := fakePhoton(t, places)
	client := photon.NewClient(srv.URL, photon.WithHTTPClient(srv.Client()))

	results, err := client.ForwardSearch(context.Background(), "atlantis", nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if results == nil || len(results) != 0 {
		t.Errorf("expected an empty, non-nil slice, got %#v", results)
	}
}

func TestForwardSearch_ServiceError(t *testing.T) {
	srv, _ := fakePhoton(t, places)
	client := photon.NewClient(srv.URL, photon.WithHTTPClient(srv.Client()))

	_, err := client.ForwardSearch(context.Background(), "", nil)

	var serr *photon.ServiceError
	if !errors.As(err, &serr) {
		t.Fatalf("expected ServiceError, got %v", err)
	}

	if serr.StatusCode != http.StatusBadRequest {
		t.Errorf("got status %d", serr.StatusCode)
	}

	if serr.Error() != "missing search term 'q': /?q=berlin" {
		t.Errorf("got message %s", serr.Error())
	}
}

func TestReverseSearch(t *testing.T) {
	srv, queries := fakePhoton(t, places)
	client := photon.NewClient(srv.URL, photon.WithHTTPClient(srv.Client()), photon.WithUserAgent("test/1.0"))
	ctx := context.Background()

	results, err := client.ReverseSearch(ctx, photon.NewLatLon(48.14368, 11.58775), &photon.ReverseFilter{
		Radius:   8,
		Language: "FR",
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if q := <-queries; q != "lat=48.14368&lon=11.58775&radius=8&lang=fr" {
		t.Errorf("got query %s", q)
	}

	want := []photon.Feature{
		{
			Coords:   photon.NewLatLon(48.14368, 11.58775),
			OsmID:    1000,
			OsmType:  photon.OsmNode,
			OsmKey:   "place",
			OsmValue: "house",
			Type:     "house",
			Name:     "Hofgarten",
			Country:  "Germany",
			State:    "Bavaria",
		},
	}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	empty, err := client.ReverseSearch(ctx, photon.NewLatLon(1, 1), nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	<-queries

	if len(empty) != 0 {
		t.Errorf("expected no results, got %d", len(empty))
	}
}

func TestSearch_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	client := photon.NewClient(srv.URL, photon.WithHTTPClient(srv.Client()))
	_, err := client.ReverseSearch(context.Background(), photon.NewLatLon(1, 1), nil)

	var derr *photon.DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}

	if derr.StatusCode != http.StatusBadGateway {
		t.Errorf("got status %d", derr.StatusCode)
	}
}

func TestSearch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := photon.NewClient(url, photon.WithHTTPClient(&http.Client{}))
	_, err := client.ForwardSearch(context.Background(), "munich", nil)
	if err == nil {
		t.Fatal("expected transport error")
	}

	var serr *photon.ServiceError
	var derr *photon.DecodeError
	if errors.As(err, &serr) || errors.As(err, &derr) {
		t.Errorf("transport error was mapped to a domain error: %v", err)
	}
}

func TestSearch_Concurrent(t *testing.T) {
	srv, queries := fakePhoton(t, places)
	client := photon.NewClient(srv.URL, photon.WithHTTPClient(srv.Client()))

	go func() {
		for range queries {
		}
	}()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(limit uint64) {
			defer wg.Done()
			res, err := client.ForwardSearch(context.Background(), "munich", &photon.ForwardFilter{Limit: limit})
			if err != nil {
				errs <- err
				return
			}
			if uint64(len(res)) != limit {
				errs <- fmt.Errorf("limit %d: got %d results", limit, len(res))
			}
		}(uint64(i%3 + 1))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestForwardSearch_LocationBias(t *testing.T) {
	srv, queries := fakePhoton(t, places)
	client := photon.NewClient(srv.URL, photon.WithHTTPClient(srv.Client()))
	ctx := context.Background()

	unbiased, err := client.ForwardSearch(ctx, "munich", nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	<-queries

	northDakota := photon.NewLatLon(48.6701, -98.8485)
	biased, err := client.ForwardSearch(ctx, "munich", &photon.ForwardFilter{
		LocationBias: &photon.LocationBias{Point: northDakota},
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if q := <-queries; q != "q=munich&lat=48.6701&lon=-98.8485" {
		t.Errorf("got query %s", q)
	}

	if len(unbiased) == 0 || len(biased) != len(unbiased) {
		t.Fatalf("got %d biased and %d unbiased results", len(biased), len(unbiased))
	}

	if unbiased[0].State != "Bavaria" {
		t.Errorf("expected the bavarian munich first without a bias, got %s", unbiased[0].State)
	}

	if biased[0].State != "North Dakota" {
		t.Errorf("expected the bias to rank north dakota first, got %s", biased[0].State)
	}
}

func TestForwardSearch_BoundingBox(t *testing.T) {
	srv, queries := fakePhoton(t, places)
	client := photon.NewClient(srv.URL, photon.WithHTTPClient(srv.Client()))

	germany := photon.BoundingBox{SouthWest: photon.NewLatLon(47.3, 5.9), NorthEast: photon.NewLatLon(55.0, 15.0)}
	results, err := client.ForwardSearch(context.Background(), "munich", &photon.ForwardFilter{BoundingBox: &germany})
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if q := <-queries; q != "q=munich&bbox=5.9%2C47.3%2C15%2C55" {
		t.Errorf("got query %s", q)
	}

	if len(results) != 2 {
		t.Fatalf("expected the two german results, got %d", len(results))
	}

	for _, r := range results {
		if r.Country != "Germany" {
			t.Errorf("got a result outside the box: %+v", r)
		}
	}
}

func TestForwardSearch_Language(t *testing.T) {
	srv, queries := fakePhoton(t, places)
	client := photon.NewClient(srv.URL, photon.WithHTTPClient(srv.Client()))

	results, err := client.ForwardSearch(context.Background(), "munich", &photon.ForwardFilter{Limit: 1, Language: "DE"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if q := <-queries; q != "q=munich&limit=1&lang=de" {
		t.Errorf("got query %s", q)
	}

	if len(results) != 1 || results[0].Country != "Deutschland" || results[0].State != "Bayern" {
		t.Errorf("expected german names, got %+v", results)
	}
}

func TestSearch_TruncatedBodyIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"features":[`))
		w.(http.Flusher).Flush()

		conn, _, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Errorf("hijack: %s", err.Error())
			return
		}
		_ = conn.Close()
	}))
	defer srv.Close()

	for _, debug := range []bool{false, true} {
		t.Run(fmt.Sprintf("debug=%t", debug), func(t *testing.T) {
			client := photon.NewClient(srv.URL, photon.WithHTTPClient(whttp.NewClient(0, debug)))

			_, err := client.ForwardSearch(context.Background(), "munich", nil)
			if !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("expected unexpected EOF, got %v", err)
			}

			var derr *photon.DecodeError
			if errors.As(err, &derr) {
				t.Errorf("a dropped connection was reported as a decode error: %v", err)
			}
		})
	}
}
