package handler

import (
	"net/http"

	"github.com/verdantlabs/gardenledger/internal/domain"
	"github.com/verdantlabs/gardenledger/internal/garden"
	"github.com/verdantlabs/gardenledger/internal/logger"
)

// PlantSeedRequest represents the orchestrated planting action: consumes a
// seed item and banks the payment in the treasury
type PlantSeedRequest struct {
	Caller  string `json:"caller" validate:"required,max=100"`
	Name    string `json:"name" validate:"required,max=100"`
	Species string `json:"species" validate:"required,max=100"`
	Payment string `json:"payment" validate:"required,amount"`
}

// DepositRequest represents a direct treasury deposit
type DepositRequest struct {
	From   string `json:"from" validate:"required,max=100"`
	Amount string `json:"amount" validate:"required,amount"`
}

// WithdrawRequest represents a treasury withdrawal by the treasury owner
type WithdrawRequest struct {
	Caller string `json:"caller" validate:"required,max=100"`
}

// WithdrawResponse reports the drained amount
type WithdrawResponse struct {
	Amount string `json:"amount"`
}

// GardenHandler handles game orchestration HTTP requests
type GardenHandler struct {
	gardenSvc garden.Service
}

// NewGardenHandler creates a new garden handler
func NewGardenHandler(gardenSvc garden.Service) *GardenHandler {
	return &GardenHandler{gardenSvc: gardenSvc}
}

// PlantSeed handles POST /garden/plant
func (h *GardenHandler) PlantSeed(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req PlantSeedRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Plant seed"); err != nil {
		return
	}

	payment, err := parseAmount(req.Payment)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidAmount)
		return
	}

	p, err := h.gardenSvc.PlantSeed(r.Context(), domain.Account(req.Caller), req.Name, req.Species, payment)
	if err != nil {
		log.Error("Planting failed", "error", err, "caller", req.Caller)
		respondServiceError(w, err)
		return
	}

	log.Info("Seed planted", "plant_id", p.ID, "caller", req.Caller)
	respondJSON(w, http.StatusCreated, DataResponse{Data: p})
}

// Deposit handles POST /garden/treasury/deposit
func (h *GardenHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req DepositRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Deposit"); err != nil {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidAmount)
		return
	}

	if err := h.gardenSvc.Deposit(r.Context(), domain.Account(req.From), amount); err != nil {
		log.Error("Deposit failed", "error", err, "from", req.From)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgDepositSuccess})
}

// Withdraw handles POST /garden/treasury/withdraw
func (h *GardenHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req WithdrawRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Withdraw"); err != nil {
		return
	}

	amount, err := h.gardenSvc.Withdraw(r.Context(), domain.Account(req.Caller))
	if err != nil {
		log.Error("Withdrawal failed", "error", err, "caller", req.Caller)
		respondServiceError(w, err)
		return
	}

	log.Info("Treasury withdrawn", "caller", req.Caller, "amount", amount.Dec())
	respondJSON(w, http.StatusOK, WithdrawResponse{Amount: amount.Dec()})
}

// Treasury handles GET /garden/treasury
func (h *GardenHandler) Treasury(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"balance": h.gardenSvc.TreasuryBalance().Dec(),
	})
}

// Stats handles GET /garden/stats
func (h *GardenHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.gardenSvc.GameStats()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total_plants_minted": stats.TotalPlantsMinted,
		"total_harvests":      stats.TotalHarvests,
		"total_reward_minted": stats.TotalRewardMinted.Dec(),
	})
}

// PlayerStats handles GET /garden/players/stats?account=
func (h *GardenHandler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	account, ok := GetQueryParam(r, w, "account")
	if !ok {
		return
	}

	stats := h.gardenSvc.PlayerStats(domain.Account(account))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"account":           account,
		"plants_owned":      stats.PlantsOwned,
		"total_harvested":   stats.TotalHarvested.Dec(),
		"achievement_count": stats.AchievementCount,
	})
}

// Addresses handles GET /garden/addresses
func (h *GardenHandler) Addresses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.gardenSvc.Addresses())
}
