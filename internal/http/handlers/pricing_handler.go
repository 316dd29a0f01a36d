// README: Pricing handlers for price suggestions and transport recommendations.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kiloshare/internal/modules/pricing"
	"kiloshare/internal/modules/transport"
	"kiloshare/internal/types"
)

type PricingHandler struct {
	pricing *pricing.Service
}

func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: svc}
}

type suggestPriceReq struct {
	TransportType string  `json:"transport_type" binding:"required"`
	DepartureCity string  `json:"departure_city" binding:"required"`
	ArrivalCity   string  `json:"arrival_city" binding:"required"`
	WeightKg      float64 `json:"weight_kg" binding:"required,gt=0"`
	Currency      string  `json:"currency" binding:"omitempty,len=3,alpha"`
}

type recommendReq struct {
	DepartureCity string  `json:"departure_city" binding:"required"`
	ArrivalCity   string  `json:"arrival_city" binding:"required"`
	WeightKg      float64 `json:"weight_kg" binding:"required,gt=0"`
}

type recommendResp struct {
	Recommendations []pricing.Recommendation `json:"recommendations"`
}

func (h *PricingHandler) Suggest(c *gin.Context) {
	var req suggestPriceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	suggestion, err := h.pricing.SuggestPrice(c.Request.Context(), pricing.PriceRequest{
		Mode:     transport.ParseMode(req.TransportType),
		From:     req.DepartureCity,
		To:       req.ArrivalCity,
		WeightKg: req.WeightKg,
		Currency: types.ParseCurrency(req.Currency),
	})
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, suggestion)
}

func (h *PricingHandler) Recommend(c *gin.Context) {
	var req recommendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	recs := h.pricing.Recommend(c.Request.Context(), req.DepartureCity, req.ArrivalCity, req.WeightKg)
	writeJSON(c, http.StatusOK, recommendResp{Recommendations: recs})
}
