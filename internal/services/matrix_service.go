package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Mapbox accepts at most this many coordinates per matrix request.
const maxMatrixCoordinates = 25

type MatrixPoint struct {
	Lat float64
	Lng float64
}

// key rounds to ~1 m so repeated activities at the same place share cache entries.
func (p MatrixPoint) key() string {
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lng)
}

// MatrixEdge is the travel from one point to the next. Found is false when
// Mapbox could not route between them.
type MatrixEdge struct {
	DistanceMeters  float64
	DurationSeconds float64
	Found           bool
}

type pairKey struct {
	Profile string
	From    string
	To      string
}

type matrixPairCacheEntry struct {
	Edge      MatrixEdge
	ExpiresAt time.Time
}

type MatrixPairCache interface {
	Get(k pairKey) (MatrixEdge, bool)
	Set(k pairKey, v MatrixEdge, ttl time.Duration)
}

type inMemoryPairCache struct {
	mu    sync.RWMutex
	store map[pairKey]matrixPairCacheEntry
	now   func() time.Time
}

func NewInMemoryPairCache() MatrixPairCache {
	return &inMemoryPairCache{
		store: make(map[pairKey]matrixPairCacheEntry),
		now:   time.Now,
	}
}

func (c *inMemoryPairCache) Get(k pairKey) (MatrixEdge, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.store[k]
	if !ok || c.now().After(it.ExpiresAt) {
		return MatrixEdge{}, false
	}
	return it.Edge, true
}

func (c *inMemoryPairCache) Set(k pairKey, v MatrixEdge, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[k] = matrixPairCacheEntry{Edge: v, ExpiresAt: c.now().Add(ttl)}
}

type DistanceMatrixService interface {
	// ComputeLegs returns len(points)-1 edges, edge i going from points[i]
	// to points[i+1].
	ComputeLegs(ctx context.Context, points []MatrixPoint) ([]MatrixEdge, error)
}

type MapboxMatrixClient struct {
	HTTP        *http.Client
	BaseURL     string
	AccessToken string
	Cache       MatrixPairCache
	DefaultTTL  time.Duration
	Profile     string // "walking", "driving", ...
}

// NewMapboxMatrixClient returns nil when no token is configured; callers
// treat a nil service as "no legs".
func NewMapboxMatrixClient(token string, cache MatrixPairCache) *MapboxMatrixClient {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return &MapboxMatrixClient{
		HTTP:        &http.Client{Timeout: 15 * time.Second},
		BaseURL:     "https://api.mapbox.com",
		AccessToken: token,
		Cache:       cache,
		DefaultTTL:  7 * 24 * time.Hour,
		Profile:     "walking",
	}
}

func (c *MapboxMatrixClient) ComputeLegs(ctx context.Context, points []MatrixPoint) ([]MatrixEdge, error) {
	if len(points) < 2 {
		return nil, nil
	}

	legs := make([]MatrixEdge, len(points)-1)
	missing := make([]int, 0, len(legs))
	for i := range legs {
		if points[i].key() == points[i+1].key() {
			legs[i] = MatrixEdge{Found: true}
			continue
		}
		if v, ok := c.Cache.Get(c.keyFor(points[i], points[i+1])); ok {
			legs[i] = v
			continue
		}
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return legs, nil
	}

	// windows overlap by one point so every consecutive pair lands in one request
	for start := 0; start < len(points)-1; start += maxMatrixCoordinates - 1 {
		end := start + maxMatrixCoordinates
		if end > len(points) {
			end = len(points)
		}
		if !anyInRange(missing, start, end-1) {
			continue
		}

		window := points[start:end]
		matrix, err := c.fetch(ctx, window)
		if err != nil {
			return nil, err
		}
		for i := 0; i < len(window)-1; i++ {
			leg := start + i
			if legs[leg].Found {
				continue
			}
			edge := matrix.edge(i, i+1)
			legs[leg] = edge
			if edge.Found {
				c.Cache.Set(c.keyFor(window[i], window[i+1]), edge, c.DefaultTTL)
			}
		}
	}
	return legs, nil
}

func (c *MapboxMatrixClient) keyFor(a, b MatrixPoint) pairKey {
	return pairKey{Profile: c.Profile, From: a.key(), To: b.key()}
}

type matrixPayload struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

func (m matrixPayload) edge(i, j int) MatrixEdge {
	var e MatrixEdge
	if i < len(m.Distances) && j < len(m.Distances[i]) && m.Distances[i][j] != nil {
		e.DistanceMeters = *m.Distances[i][j]
		e.Found = true
	}
	if i < len(m.Durations) && j < len(m.Durations[i]) && m.Durations[i][j] != nil {
		e.DurationSeconds = *m.Durations[i][j]
	}
	return e
}

func (c *MapboxMatrixClient) fetch(ctx context.Context, points []MatrixPoint) (*matrixPayload, error) {
	coords := make([]string, 0, len(points))
	for _, p := range points {
		coords = append(coords, fmt.Sprintf("%f,%f", p.Lng, p.Lat))
	}

	u, err := url.Parse(strings.TrimRight(c.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("mapbox base url: %w", err)
	}
	u.Path = fmt.Sprintf("/directions-matrix/v1/mapbox/%s/%s", c.Profile, strings.Join(coords, ";"))
	q := url.Values{}
	q.Set("annotations", "distance,duration")
	q.Set("access_token", c.AccessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapbox matrix http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("mapbox matrix bad status: %s", resp.Status)
	}

	var payload matrixPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("mapbox decode: %w", err)
	}
	if payload.Code != "" && payload.Code != "Ok" {
		return nil, fmt.Errorf("mapbox matrix: %s %s", payload.Code, payload.Message)
	}
	return &payload, nil
}

func anyInRange(sorted []int, lo, hi int) bool {
	for _, v := range sorted {
		if v >= lo && v < hi {
			return true
		}
	}
	return false
}
