package handler

import (
	"crypto-trading-sim/internal/core/ports"
	"crypto-trading-sim/pkg/response"

	"github.com/gin-gonic/gin"
)

// PortfolioHandler handles portfolio valuation endpoints.
type PortfolioHandler struct {
	portfolioSvc ports.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioSvc ports.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioSvc: portfolioSvc}
}

// GetStats handles GET /api/v1/portfolio/stats.
func (h *PortfolioHandler) GetStats(c *gin.Context) {
	walletID, ok := callerWalletID(c)
	if !ok {
		return
	}

	stats, err := h.portfolioSvc.GetWalletStats(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, stats)
}
