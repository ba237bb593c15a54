package handler

import (
	"crypto-trading-sim/internal/adapter/http/dto"
	"crypto-trading-sim/internal/core/ports"
	"crypto-trading-sim/pkg/response"

	"github.com/gin-gonic/gin"
)

// HistoryHandler handles transaction log endpoints.
type HistoryHandler struct {
	historySvc ports.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historySvc ports.HistoryService) *HistoryHandler {
	return &HistoryHandler{historySvc: historySvc}
}

// ListTransactions handles GET /api/v1/transactions.
func (h *HistoryHandler) ListTransactions(c *gin.Context) {
	walletID, ok := callerWalletID(c)
	if !ok {
		return
	}

	txns, err := h.historySvc.GetTransactionsByWallet(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}
	response.OK(c, items)
}

// GetStats handles GET /api/v1/transactions/stats.
func (h *HistoryHandler) GetStats(c *gin.Context) {
	walletID, ok := callerWalletID(c)
	if !ok {
		return
	}

	stats, err := h.historySvc.GetTransactionStats(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TransactionStatsResponse{
		TotalBought:      stats.TotalBought.String(),
		TotalSold:        stats.TotalSold.String(),
		TradingVolume:    stats.TradingVolume.String(),
		TransactionCount: stats.TransactionCount,
	})
}
