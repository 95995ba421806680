package handler

import (
	"net/http"

	"github.com/verdantlabs/gardenledger/internal/domain"
	"github.com/verdantlabs/gardenledger/internal/logger"
	"github.com/verdantlabs/gardenledger/internal/token"
)

// TransferRequest represents a token transfer between two accounts
type TransferRequest struct {
	From   string `json:"from" validate:"required,max=100"`
	To     string `json:"to" validate:"required,max=100"`
	Amount string `json:"amount" validate:"required,amount"`
}

// BurnRequest represents a voluntary token burn
type BurnRequest struct {
	Account string `json:"account" validate:"required,max=100"`
	Amount  string `json:"amount" validate:"required,amount"`
}

// BalanceResponse reports an account's token balance in smallest units
type BalanceResponse struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
}

// SupplyResponse reports the ledger-wide supply figures
type SupplyResponse struct {
	TotalSupply       string `json:"total_supply"`
	CirculatingSupply string `json:"circulating_supply"`
	TotalBurned       string `json:"total_burned"`
	BurnRate          string `json:"burn_rate"`
}

// TokenHandler handles token ledger HTTP requests
type TokenHandler struct {
	tokenSvc token.Service
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(tokenSvc token.Service) *TokenHandler {
	return &TokenHandler{tokenSvc: tokenSvc}
}

// Balance handles GET /token/balance?account=
func (h *TokenHandler) Balance(w http.ResponseWriter, r *http.Request) {
	account, ok := GetQueryParam(r, w, "account")
	if !ok {
		return
	}

	balance := h.tokenSvc.BalanceOf(domain.Account(account))
	respondJSON(w, http.StatusOK, BalanceResponse{
		Account: account,
		Balance: balance.Dec(),
	})
}

// Supply handles GET /token/supply
func (h *TokenHandler) Supply(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SupplyResponse{
		TotalSupply:       h.tokenSvc.TotalSupply().Dec(),
		CirculatingSupply: h.tokenSvc.CirculatingSupply().Dec(),
		TotalBurned:       h.tokenSvc.TotalBurned().Dec(),
		BurnRate:          h.tokenSvc.BurnRate().Dec(),
	})
}

// Transfer handles POST /token/transfer
func (h *TokenHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req TransferRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Transfer"); err != nil {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidAmount)
		return
	}

	if err := h.tokenSvc.Transfer(r.Context(), domain.Account(req.From), domain.Account(req.To), amount); err != nil {
		log.Error("Transfer failed", "error", err, "from", req.From, "to", req.To)
		respondServiceError(w, err)
		return
	}

	log.Info("Transfer successful", "from", req.From, "to", req.To, "amount", req.Amount)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgTransferSuccess})
}

// Burn handles POST /token/burn
func (h *TokenHandler) Burn(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req BurnRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Burn"); err != nil {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidAmount)
		return
	}

	if err := h.tokenSvc.Burn(r.Context(), domain.Account(req.Account), amount); err != nil {
		log.Error("Burn failed", "error", err, "account", req.Account)
		respondServiceError(w, err)
		return
	}

	log.Info("Burn successful", "account", req.Account, "amount", req.Amount)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgBurnSuccess})
}

// BurnCooldown handles GET /token/burn/cooldown?account=
func (h *TokenHandler) BurnCooldown(w http.ResponseWriter, r *http.Request) {
	account, ok := GetQueryParam(r, w, "account")
	if !ok {
		return
	}

	remaining := h.tokenSvc.TimeUntilBurn(domain.Account(account))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"account":           account,
		"seconds_remaining": int64(remaining.Seconds()),
	})
}
