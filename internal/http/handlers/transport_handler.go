// README: Transport handlers exposing per-mode limits and feature flags.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kiloshare/internal/modules/transport"
)

type TransportHandler struct {
	modes *transport.Table
}

func NewTransportHandler(modes *transport.Table) *TransportHandler {
	return &TransportHandler{modes: modes}
}

func (h *TransportHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"transport_types": h.modes.DescribeAll()})
}

func (h *TransportHandler) Get(c *gin.Context) {
	mode := transport.ParseMode(c.Param("mode"))
	if !h.modes.Known(mode) {
		writeError(c, http.StatusNotFound, "unknown transport type")
		return
	}
	writeJSON(c, http.StatusOK, h.modes.Describe(mode))
}
