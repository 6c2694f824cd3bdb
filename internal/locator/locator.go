package locator

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Lỗi tra cứu theo từng đầu tuyến, để API phân biệt được điểm đi hay điểm đến sai.
var (
	ErrOriginNotFound      = errors.New("origin city or country not found")
	ErrDestinationNotFound = errors.New("destination city or country not found")
)

type Coordinates struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// RouteCoordinates holds both endpoints of a vehicle's transport route.
type RouteCoordinates struct {
	Origin      Coordinates `json:"origin"`
	Destination Coordinates `json:"destination"`
}

// Locator resolves city+country pairs to coordinates from a worldcities CSV
// dataset, with an optional Redis cache in front of the file scan.
type Locator struct {
	csvPath  string
	cache    *redis.Client // nil thì bỏ qua cache, đọc thẳng file
	cacheTTL time.Duration
}

type Option func(*Locator)

// WithCacheTTL overrides the default 24h lifetime of cached lookups.
func WithCacheTTL(ttl time.Duration) Option {
	return func(l *Locator) {
		l.cacheTTL = ttl
	}
}

func NewLocator(csvPath string, cache *redis.Client, opts ...Option) *Locator {
	l := &Locator{
		csvPath:  csvPath,
		cache:    cache,
		cacheTTL: 24 * time.Hour,
	}

	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LookupRoute resolves both endpoints of a route. Each endpoint fails with its
// own sentinel error so the caller can report which side of the route is wrong.
func (l *Locator) LookupRoute(ctx context.Context, countryA, cityA, countryB, cityB string) (RouteCoordinates, error) {
	origin, ok, err := l.lookupCity(ctx, countryA, cityA)
	if err != nil {
		return RouteCoordinates{}, err
	}
	if !ok {
		return RouteCoordinates{}, fmt.Errorf("%s, %s: %w", cityA, countryA, ErrOriginNotFound)
	}

	destination, ok, err := l.lookupCity(ctx, countryB, cityB)
	if err != nil {
		return RouteCoordinates{}, err
	}
	if !ok {
		return RouteCoordinates{}, fmt.Errorf("%s, %s: %w", cityB, countryB, ErrDestinationNotFound)
	}

	return RouteCoordinates{Origin: origin, Destination: destination}, nil
}

func (l *Locator) lookupCity(ctx context.Context, country, city string) (Coordinates, bool, error) {
	cacheKey := fmt.Sprintf("geo:%s:%s", strings.ToLower(country), strings.ToLower(city))

	if l.cache != nil {
		cached, err := l.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var coords Coordinates
			if err = json.Unmarshal([]byte(cached), &coords); err == nil {
				return coords, true, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			// Redis hỏng thì vẫn tra file được, chỉ log lại
			log.Warn().Err(err).Str("key", cacheKey).Msg("geo cache read failed")
		}
	}

	coords, found, err := l.scanCSV(country, city)
	if err != nil || !found {
		return Coordinates{}, false, err
	}

	if l.cache != nil {
		data, _ := json.Marshal(coords)
		if err := l.cache.Set(ctx, cacheKey, data, l.cacheTTL).Err(); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("geo cache write failed")
		}
	}

	return coords, true, nil
}

// scanCSV walks the worldcities dataset looking for an exact city_ascii+country
// match, the same matching rule the listing data was entered against.
func (l *Locator) scanCSV(country, city string) (Coordinates, bool, error) {
	f, err := os.Open(l.csvPath)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("failed to open world cities dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("failed to read world cities header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, required := range []string{"city_ascii", "country", "lat", "lng"} {
		if _, ok := columns[required]; !ok {
			return Coordinates{}, false, fmt.Errorf("world cities dataset missing column %q", required)
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return Coordinates{}, false, nil
		}
		if err != nil {
			return Coordinates{}, false, fmt.Errorf("failed to read world cities record: %w", err)
		}

		if record[columns["city_ascii"]] == city && record[columns["country"]] == country {
			return Coordinates{
				Lat: record[columns["lat"]],
				Lng: record[columns["lng"]],
			}, true, nil
		}
	}
}
