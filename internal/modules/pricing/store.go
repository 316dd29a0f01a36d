// README: Pricing reference store backed by PostgreSQL; read once at startup.
package pricing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	classHubName      = "hub"
	classRegionalName = "regional"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// LoadReference overlays the database reference tables on base.
func (s *Store) LoadReference(ctx context.Context, base Reference) (Reference, error) {
	distances, err := s.loadDistances(ctx)
	if err != nil {
		return Reference{}, fmt.Errorf("loading city distances: %w", err)
	}
	hubs, regional, err := s.loadCityClasses(ctx)
	if err != nil {
		return Reference{}, fmt.Errorf("loading city classes: %w", err)
	}
	rates, err := s.loadExchangeRates(ctx)
	if err != nil {
		return Reference{}, fmt.Errorf("loading exchange rates: %w", err)
	}
	return base.Merge(Reference{
		Distances:     distances,
		Hubs:          hubs,
		Regional:      regional,
		ExchangeRates: rates,
	}), nil
}

func (s *Store) loadDistances(ctx context.Context) ([]CityDistance, error) {
	rows, err := s.db.Query(ctx, `
        SELECT from_city, to_city, distance_km
        FROM city_distances
        ORDER BY from_city, to_city`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[CityDistance])
}

func (s *Store) loadCityClasses(ctx context.Context) (hubs, regional []string, err error) {
	rows, err := s.db.Query(ctx, `SELECT city, class FROM city_classes ORDER BY city`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var city, class string
		if err := rows.Scan(&city, &class); err != nil {
			return nil, nil, err
		}
		switch class {
		case classHubName:
			hubs = append(hubs, city)
		case classRegionalName:
			regional = append(regional, city)
		}
	}
	return hubs, regional, rows.Err()
}

func (s *Store) loadExchangeRates(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.Query(ctx, `SELECT currency, rate FROM exchange_rates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rates := make(map[string]float64)
	for rows.Next() {
		var code string
		var rate float64
		if err := rows.Scan(&code, &rate); err != nil {
			return nil, err
		}
		rates[code] = rate
	}
	return rates, rows.Err()
}
