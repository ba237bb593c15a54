package handler

import (
	"context"

	"crypto-trading-sim/internal/adapter/http/dto"
	"crypto-trading-sim/internal/adapter/http/middleware"
	"crypto-trading-sim/internal/core/domain"
	"crypto-trading-sim/internal/core/ports"
	"crypto-trading-sim/pkg/apperror"
	"crypto-trading-sim/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeHandler handles trade execution endpoints.
type TradeHandler struct {
	tradeSvc ports.TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeSvc ports.TradeService) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc}
}

// Buy handles POST /api/v1/trades/buy.
func (h *TradeHandler) Buy(c *gin.Context) {
	h.executeTrade(c, h.tradeSvc.Buy)
}

// Sell handles POST /api/v1/trades/sell.
func (h *TradeHandler) Sell(c *gin.Context) {
	h.executeTrade(c, h.tradeSvc.Sell)
}

func (h *TradeHandler) executeTrade(c *gin.Context, exec func(context.Context, ports.TradeRequest) (*ports.TradeResult, error)) {
	walletID, ok := callerWalletID(c)
	if !ok {
		return
	}

	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	result, err := exec(c.Request.Context(), ports.TradeRequest{
		WalletID: walletID,
		Symbol:   req.Symbol,
		Amount:   amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTradeResponse(result))
}

// Transfer handles POST /api/v1/trades/transfer.
func (h *TradeHandler) Transfer(c *gin.Context) {
	walletID, ok := callerWalletID(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	toWalletID, err := uuid.Parse(req.ToWalletID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid destination wallet id"))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	err = h.tradeSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		FromWalletID: walletID,
		ToWalletID:   toWalletID,
		Symbol:       req.Symbol,
		Amount:       amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"status": "transferred"})
}

// AdjustHolding handles PUT /api/v1/holdings.
func (h *TradeHandler) AdjustHolding(c *gin.Context) {
	walletID, ok := callerWalletID(c)
	if !ok {
		return
	}

	var req dto.AdjustHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	result, err := h.tradeSvc.AdjustHolding(c.Request.Context(), ports.AdjustmentRequest{
		WalletID: walletID,
		Symbol:   req.Symbol,
		Amount:   amount,
		Price:    price,
		Type:     domain.TransactionType(req.Type),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTradeResponse(result))
}

// callerWalletID pulls the authenticated wallet ID off the context.
func callerWalletID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(middleware.CtxWalletID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return uuid.Nil, false
	}
	walletID, ok := raw.(uuid.UUID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return uuid.Nil, false
	}
	return walletID, true
}

// toTradeResponse converts a trade result to its DTO.
func toTradeResponse(result *ports.TradeResult) dto.TradeResponse {
	resp := dto.TradeResponse{
		Transaction:    toTransactionResponse(result.Transaction),
		NewCashBalance: result.NewCashBalance.String(),
	}
	if result.Holding != nil {
		resp.Holding = &dto.HoldingResponse{
			ID:          result.Holding.ID.String(),
			Symbol:      result.Holding.Symbol,
			Amount:      result.Holding.Amount.String(),
			AvgBuyPrice: result.Holding.AvgBuyPrice.String(),
		}
	}
	return resp
}

// toTransactionResponse converts domain.Transaction to its DTO.
func toTransactionResponse(tx *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:        tx.ID.String(),
		Type:      string(tx.Type),
		Symbol:    tx.Symbol,
		Amount:    tx.Amount.String(),
		Total:     tx.Total.String(),
		CreatedAt: tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if tx.Price != nil {
		s := tx.Price.String()
		resp.Price = &s
	}
	if tx.CounterpartyWalletID != nil {
		s := tx.CounterpartyWalletID.String()
		resp.CounterpartyWalletID = &s
	}
	return resp
}
