// README: Handler tests for pricing and transport endpoints.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiloshare/internal/http/handlers"
	"kiloshare/internal/modules/pricing"
	"kiloshare/internal/modules/transport"
)

func buildTestRouter(t *testing.T, strict bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	modes := transport.DefaultTable()
	svc, err := pricing.NewService(modes, pricing.DefaultReference(), pricing.Options{Strict: strict})
	require.NoError(t, err)

	r := gin.New()
	ph := handlers.NewPricingHandler(svc)
	r.POST("/api/v1/pricing/suggest", ph.Suggest)
	r.POST("/api/v1/pricing/recommend", ph.Recommend)
	th := handlers.NewTransportHandler(modes)
	r.GET("/api/v1/transport/limits", th.List)
	r.GET("/api/v1/transport/limits/:mode", th.Get)
	return r
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSuggest_OK(t *testing.T) {
	r := buildTestRouter(t, false)
	w := doRequest(r, http.MethodPost, "/api/v1/pricing/suggest", map[string]any{
		"transport_type": "flight",
		"departure_city": "Halifax",
		"arrival_city":   "Moncton",
		"weight_kg":      10,
		"currency":       "CAD",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 3.0, got["suggested_price_per_kg"])
	assert.Equal(t, 30.0, got["total_price"])
	assert.Equal(t, 4.5, got["commission"])
	assert.Equal(t, 25.5, got["net_earnings"])
	assert.Equal(t, "CAD", got["currency"])
	assert.Equal(t, "flight", got["transport_type"])
	assert.Equal(t, 270.0, got["distance_km"])
	assert.Equal(t, 10.0, got["weight_kg"])
	assert.Equal(t, 2.5, got["base_rate"])
	assert.Equal(t, 0.15, got["commission_rate"])
	assert.NotEmpty(t, got["explanation"])
}

func TestSuggest_DefaultsToCAD(t *testing.T) {
	r := buildTestRouter(t, false)
	w := doRequest(r, http.MethodPost, "/api/v1/pricing/suggest", map[string]any{
		"transport_type": "Car",
		"departure_city": "Montreal",
		"arrival_city":   "Halifax",
		"weight_kg":      10,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"currency":"CAD"`)
	assert.Contains(t, w.Body.String(), `"total_price":15.6`)
}

func TestSuggest_OverweightIsBadRequest(t *testing.T) {
	r := buildTestRouter(t, false)
	w := doRequest(r, http.MethodPost, "/api/v1/pricing/suggest", map[string]any{
		"transport_type": "flight",
		"departure_city": "A",
		"arrival_city":   "B",
		"weight_kg":      30,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "weight 30kg exceeds the 23kg limit for Avion")
}

func TestSuggest_StrictUnknownMode(t *testing.T) {
	r := buildTestRouter(t, true)
	w := doRequest(r, http.MethodPost, "/api/v1/pricing/suggest", map[string]any{
		"transport_type": "boat",
		"departure_city": "A",
		"arrival_city":   "B",
		"weight_kg":      5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown transport type")
}

func TestSuggest_ValidationErrors(t *testing.T) {
	r := buildTestRouter(t, false)
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing weight", map[string]any{"transport_type": "car", "departure_city": "A", "arrival_city": "B"}},
		{"negative weight", map[string]any{"transport_type": "car", "departure_city": "A", "arrival_city": "B", "weight_kg": -1}},
		{"missing city", map[string]any{"transport_type": "car", "departure_city": "A", "weight_kg": 1}},
		{"bad currency", map[string]any{"transport_type": "car", "departure_city": "A", "arrival_city": "B", "weight_kg": 1, "currency": "dollars"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/api/v1/pricing/suggest", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/suggest", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommend_OK(t *testing.T) {
	r := buildTestRouter(t, false)
	w := doRequest(r, http.MethodPost, "/api/v1/pricing/recommend", map[string]any{
		"departure_city": "Halifax",
		"arrival_city":   "Sydney",
		"weight_kg":      50,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		Recommendations []map[string]any `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Recommendations, 1)
	rec := got.Recommendations[0]
	assert.Equal(t, "car", rec["transport_type"])
	assert.Equal(t, 100.0, rec["suitability_score"])
	assert.NotNil(t, rec["pros"])
	assert.NotNil(t, rec["cons"])
	_, hasExplanation := rec["explanation"]
	assert.False(t, hasExplanation, "recommendations carry no explanation")
}

func TestRecommend_NothingFits(t *testing.T) {
	r := buildTestRouter(t, false)
	w := doRequest(r, http.MethodPost, "/api/v1/pricing/recommend", map[string]any{
		"departure_city": "Halifax",
		"arrival_city":   "Moncton",
		"weight_kg":      500,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recommendations":[]}`, w.Body.String())
}

func TestTransportLimits(t *testing.T) {
	r := buildTestRouter(t, false)

	w := doRequest(r, http.MethodGet, "/api/v1/transport/limits", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		TransportTypes []transport.Description `json:"transport_types"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.TransportTypes, 2)
	assert.Equal(t, transport.ModeFlight, list.TransportTypes[0].TransportType)
	assert.Equal(t, 23.0, list.TransportTypes[0].WeightLimitKg)

	w = doRequest(r, http.MethodGet, "/api/v1/transport/limits/car", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"vehicle_info_required":true`)

	w = doRequest(r, http.MethodGet, "/api/v1/transport/limits/boat", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
