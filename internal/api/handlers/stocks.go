package handlers

import (
	"net/http"
)

// StockLister lists loaded stock names
type StockLister interface {
	Names() []string
}

// StockHandler exposes the loaded stock table
type StockHandler struct {
	stocks StockLister
}

// NewStockHandler creates a stock handler
func NewStockHandler(stocks StockLister) *StockHandler {
	return &StockHandler{stocks: stocks}
}

// List returns loaded stock names in load order
// GET /api/stocks
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	names := h.stocks.Names()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(names),
		"stocks": names,
	})
}
