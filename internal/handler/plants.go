package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdantlabs/gardenledger/internal/domain"
	"github.com/verdantlabs/gardenledger/internal/logger"
	"github.com/verdantlabs/gardenledger/internal/plant"
)

// MintPlantRequest represents a direct plant mint against a native payment
type MintPlantRequest struct {
	Owner   string `json:"owner" validate:"required,max=100"`
	Name    string `json:"name" validate:"required,max=100"`
	Species string `json:"species" validate:"required,max=100"`
	Payment string `json:"payment" validate:"required,amount"`
}

// AdminMintPlantRequest represents an administrative plant mint with a chosen rarity
type AdminMintPlantRequest struct {
	Caller  string `json:"caller" validate:"required,max=100"`
	Owner   string `json:"owner" validate:"required,max=100"`
	Name    string `json:"name" validate:"required,max=100"`
	Species string `json:"species" validate:"required,max=100"`
	Rarity  int    `json:"rarity" validate:"required,min=1,max=5"`
}

// WaterPlantRequest represents a watering action
type WaterPlantRequest struct {
	Caller string `json:"caller" validate:"required,max=100"`
}

// HarvestResponse reports a successful harvest
type HarvestResponse struct {
	PlantID uint64 `json:"plant_id"`
	Reward  string `json:"reward"`
}

// PlantStatusResponse is the full derived view of a plant
type PlantStatusResponse struct {
	Plant             *domain.Plant `json:"plant"`
	WaterLevel        int           `json:"water_level"`
	SecondsUntilWater int64         `json:"seconds_until_water"`
}

// PlantHandler handles plant lifecycle HTTP requests
type PlantHandler struct {
	plantSvc plant.Service
}

// NewPlantHandler creates a new plant handler
func NewPlantHandler(plantSvc plant.Service) *PlantHandler {
	return &PlantHandler{plantSvc: plantSvc}
}

// Get handles GET /plants/{id}
func (h *PlantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	p, err := h.plantSvc.GetPlant(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Harvested plants have no live watering state.
	if !p.Exists {
		respondJSON(w, http.StatusOK, PlantStatusResponse{Plant: p})
		return
	}

	level, err := h.plantSvc.CalculateWaterLevel(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	remaining, err := h.plantSvc.GetTimeUntilWater(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, PlantStatusResponse{
		Plant:             p,
		WaterLevel:        level,
		SecondsUntilWater: int64(remaining.Seconds()),
	})
}

// List handles GET /plants?owner=
func (h *PlantHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := GetQueryParam(r, w, "owner")
	if !ok {
		return
	}

	plants := h.plantSvc.GetUserPlants(domain.Account(owner))
	respondJSON(w, http.StatusOK, DataResponse{Data: plants})
}

// Mint handles POST /plants
func (h *PlantHandler) Mint(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req MintPlantRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Mint plant"); err != nil {
		return
	}

	payment, err := parseAmount(req.Payment)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidAmount)
		return
	}

	p, err := h.plantSvc.MintPlant(r.Context(), domain.Account(req.Owner), req.Name, req.Species, payment)
	if err != nil {
		log.Error("Plant mint failed", "error", err, "owner", req.Owner)
		respondServiceError(w, err)
		return
	}

	log.Info("Plant minted", "plant_id", p.ID, "owner", req.Owner, "rarity", p.Rarity)
	respondJSON(w, http.StatusCreated, DataResponse{Data: p})
}

// AdminMint handles POST /plants/admin/mint
func (h *PlantHandler) AdminMint(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req AdminMintPlantRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Admin mint plant"); err != nil {
		return
	}

	p, err := h.plantSvc.AdminMintPlant(r.Context(), domain.Account(req.Caller), domain.Account(req.Owner), req.Name, req.Species, req.Rarity)
	if err != nil {
		log.Error("Admin plant mint failed", "error", err, "caller", req.Caller)
		respondServiceError(w, err)
		return
	}

	log.Info("Admin plant minted", "plant_id", p.ID, "owner", req.Owner, "rarity", p.Rarity)
	respondJSON(w, http.StatusCreated, DataResponse{Data: p})
}

// Water handles POST /plants/{id}/water
func (h *PlantHandler) Water(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, ok := PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req WaterPlantRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Water plant"); err != nil {
		return
	}

	if err := h.plantSvc.WaterPlant(r.Context(), domain.Account(req.Caller), id); err != nil {
		log.Error("Watering failed", "error", err, "plant_id", id, "caller", req.Caller)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgPlantWatered})
}

// UpdateStage handles POST /plants/{id}/stage
func (h *PlantHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.plantSvc.UpdatePlantStage(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgStageUpdated})
}

// Harvest handles POST /plants/{id}/harvest
func (h *PlantHandler) Harvest(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, ok := PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req WaterPlantRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Harvest plant"); err != nil {
		return
	}

	reward, err := h.plantSvc.HarvestPlant(r.Context(), domain.Account(req.Caller), id)
	if err != nil {
		log.Error("Harvest failed", "error", err, "plant_id", id, "caller", req.Caller)
		respondServiceError(w, err)
		return
	}

	log.Info("Harvest successful", "plant_id", id, "caller", req.Caller, "reward", reward.Dec())
	respondJSON(w, http.StatusOK, HarvestResponse{PlantID: id, Reward: reward.Dec()})
}
