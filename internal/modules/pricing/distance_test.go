package pricing

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Distance(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want int
	}{
		{"known route", "Halifax", "Moncton", 270},
		{"known route reversed", "Moncton", "Halifax", 270},
		{"known route listed the other way", "Halifax", "Montreal", 1300},
		{"hub to regional estimate", "Toronto", "Sydney", hubToRegionalKm},
		{"regional to hub estimate", "Sydney", "Vancouver", hubToRegionalKm},
		{"regional to regional estimate", "Halifax", "Sydney", regionalToRegionalKm},
		{"hub to hub estimate", "Vancouver", "Ottawa", defaultEstimateKm},
		{"unclassified cities", "Springfield", "Shelbyville", defaultEstimateKm},
		{"one unclassified city", "Toronto", "Springfield", defaultEstimateKm},
		{"case and accents folded", "  québec ", "MONTREAL", 250},
		{"inner whitespace folded", "Saint   John", "toronto", hubToRegionalKm},
	}

	svc := newTestService(t, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Distance(context.Background(), tt.from, tt.to))
		})
	}
}

func TestService_Distance_SymmetricAndCachedBothWays(t *testing.T) {
	pairs := [][2]string{
		{"Halifax", "Moncton"},
		{"Toronto", "Sydney"},
		{"Springfield", "Shelbyville"},
		{"Calgary", "Edmonton"},
	}
	for _, p := range pairs {
		cache, err := NewMemoryCache(16)
		require.NoError(t, err)
		svc := newTestService(t, Options{Cache: cache})
		ctx := context.Background()

		ab := svc.Distance(ctx, p[0], p[1])
		key := NewRouteKey(p[0], p[1])
		fwd, okFwd := cache.Get(ctx, key)
		rev, okRev := cache.Get(ctx, key.Reverse())

		require.True(t, okFwd, "forward entry missing for %v", p)
		require.True(t, okRev, "reverse entry missing for %v", p)
		assert.Equal(t, ab, fwd)
		assert.Equal(t, fwd, rev)
		assert.Equal(t, ab, svc.Distance(ctx, p[1], p[0]))
	}
}

func TestService_Distance_CacheWinsOverTable(t *testing.T) {
	cache, err := NewMemoryCache(16)
	require.NoError(t, err)
	cache.Set(context.Background(), NewRouteKey("Moncton", "Halifax"), 999)

	svc := newTestService(t, Options{Cache: cache})
	assert.Equal(t, 999, svc.Distance(context.Background(), "Halifax", "Moncton"))
}

func TestService_Distance_InjectedReference(t *testing.T) {
	ref := Reference{
		Distances: []CityDistance{{From: "Douala", To: "Yaoundé", Km: 240}},
		Hubs:      []string{"Paris"},
		Regional:  []string{"Douala", "Lyon"},
	}
	svc, err := NewService(newBusTable(t), ref, Options{})
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, 240, svc.Distance(ctx, "yaounde", "douala"))
	assert.Equal(t, hubToRegionalKm, svc.Distance(ctx, "Paris", "Lyon"))
	assert.Equal(t, regionalToRegionalKm, svc.Distance(ctx, "Lyon", "Douala"))
	assert.Equal(t, defaultEstimateKm, svc.Distance(ctx, "Halifax", "Moncton"))
}

func TestService_Distance_Concurrent(t *testing.T) {
	svc := newTestService(t, Options{})
	routes := [][2]string{{"Toronto", "Sydney"}, {"Halifax", "Moncton"}, {"X", "Y"}}

	var wg sync.WaitGroup
	results := make([][]int, len(routes))
	for i := range routes {
		results[i] = make([]int, 50)
		for j := 0; j < 50; j++ {
			wg.Add(1)
			go func(i, j int) {
				defer wg.Done()
				r := routes[i]
				if j%2 == 0 {
					results[i][j] = svc.Distance(context.Background(), r[0], r[1])
				} else {
					results[i][j] = svc.Distance(context.Background(), r[1], r[0])
				}
			}(i, j)
		}
	}
	wg.Wait()

	for i, rs := range results {
		for _, km := range rs {
			assert.Equal(t, rs[0], km, "route %v", routes[i])
		}
	}
}
