// README: Injected reference data: known city distances, city classes and exchange rates.
package pricing

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"kiloshare/internal/modules/transport"
	"kiloshare/internal/types"
)

// CityDistance is a known route length; it applies in both directions.
type CityDistance struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Km   int    `yaml:"km"`
}

type Reference struct {
	Modes         []transport.Constraints `yaml:"modes"`
	Distances     []CityDistance          `yaml:"distances"`
	Hubs          []string                `yaml:"hubs"`     // long-distance hubs
	Regional      []string                `yaml:"regional"` // secondary cities
	ExchangeRates map[string]float64      `yaml:"exchange_rates"`
}

func DefaultReference() Reference {
	return Reference{
		Modes: transport.DefaultConstraints(),
		Distances: []CityDistance{
			{From: "Halifax", To: "Moncton", Km: 270},
			{From: "Montreal", To: "Halifax", Km: 1300},
			{From: "Montreal", To: "Toronto", Km: 540},
			{From: "Montreal", To: "Quebec", Km: 250},
			{From: "Montreal", To: "Ottawa", Km: 200},
			{From: "Toronto", To: "Ottawa", Km: 450},
			{From: "Toronto", To: "Halifax", Km: 1800},
			{From: "Toronto", To: "Vancouver", Km: 4400},
			{From: "Calgary", To: "Vancouver", Km: 970},
			{From: "Calgary", To: "Edmonton", Km: 300},
			{From: "Halifax", To: "Fredericton", Km: 420},
			{From: "Moncton", To: "Fredericton", Km: 180},
			{From: "Moncton", To: "Charlottetown", Km: 170},
			{From: "Quebec", To: "Sherbrooke", Km: 240},
		},
		Hubs: []string{"Toronto", "Montreal", "Vancouver", "Calgary", "Ottawa", "Edmonton"},
		Regional: []string{
			"Halifax", "Moncton", "Quebec", "Fredericton", "Saint John",
			"Charlottetown", "Sydney", "Sherbrooke", "Trois-Rivieres",
		},
		ExchangeRates: map[string]float64{
			string(types.CAD): 1.0,
			string(types.USD): 0.74,
			string(types.EUR): 0.68,
		},
	}
}

// Merge overlays o on r: modes are replaced when o has any, distances are
// appended (later entries win) and rates overridden. A city classified by o
// keeps only that class.
func (r Reference) Merge(o Reference) Reference {
	overlaid := citySet(append(append([]string{}, o.Hubs...), o.Regional...))
	out := Reference{
		Modes:         r.Modes,
		Distances:     append(append([]CityDistance{}, r.Distances...), o.Distances...),
		Hubs:          append(withoutCities(r.Hubs, overlaid), o.Hubs...),
		Regional:      append(withoutCities(r.Regional, overlaid), o.Regional...),
		ExchangeRates: make(map[string]float64, len(r.ExchangeRates)+len(o.ExchangeRates)),
	}
	if len(o.Modes) > 0 {
		out.Modes = o.Modes
	}
	for k, v := range r.ExchangeRates {
		out.ExchangeRates[strings.ToUpper(k)] = v
	}
	for k, v := range o.ExchangeRates {
		out.ExchangeRates[strings.ToUpper(k)] = v
	}
	return out
}

func withoutCities(names []string, drop map[string]struct{}) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := drop[normalizeCity(n)]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// Version fingerprints the reference so shared caches can be partitioned per
// deployed dataset.
func (r Reference) Version() string {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "unversioned"
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// LoadReferenceFile reads a YAML reference file and merges it over base.
func LoadReferenceFile(path string, base Reference) (Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Reference{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var ref Reference
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return Reference{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return base.Merge(ref), nil
}

// normalizeCity folds case, accents and inner whitespace so "  Québec " == "quebec".
func normalizeCity(name string) string {
	name = strings.TrimSpace(name)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, name); err == nil {
		name = folded
	}
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
