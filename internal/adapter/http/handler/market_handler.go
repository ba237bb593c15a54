package handler

import (
	"strings"

	"crypto-trading-sim/internal/adapter/http/dto"
	"crypto-trading-sim/internal/core/ports"
	"crypto-trading-sim/pkg/apperror"
	"crypto-trading-sim/pkg/response"

	"github.com/gin-gonic/gin"
)

// MarketHandler exposes read-only market data endpoints.
type MarketHandler struct {
	oracle ports.PriceOracle
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(oracle ports.PriceOracle) *MarketHandler {
	return &MarketHandler{oracle: oracle}
}

// GetPrice handles GET /api/v1/market/price/:symbol.
func (h *MarketHandler) GetPrice(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}

	price, err := h.oracle.GetPrice(c.Request.Context(), symbol)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PriceResponse{
		Symbol: symbol,
		Price:  price.String(),
	})
}

// GetStats handles GET /api/v1/market/stats/:symbol.
func (h *MarketHandler) GetStats(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}

	stats, err := h.oracle.Get24hStats(c.Request.Context(), symbol)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, stats)
}

func symbolParam(c *gin.Context) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" || len(symbol) > 12 {
		response.Error(c, apperror.Validation("invalid symbol"))
		return "", false
	}
	return symbol, true
}
