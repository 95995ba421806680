package handler

import (
	"net/http"

	"github.com/verdantlabs/gardenledger/internal/domain"
	"github.com/verdantlabs/gardenledger/internal/items"
	"github.com/verdantlabs/gardenledger/internal/logger"
)

// BuyItemsRequest represents a batch marketplace purchase
type BuyItemsRequest struct {
	Buyer   string   `json:"buyer" validate:"required,max=100"`
	ItemIDs []uint64 `json:"item_ids" validate:"required,min=1"`
	Amounts []uint64 `json:"amounts" validate:"required,min=1"`
	Payment string   `json:"payment" validate:"required,amount"`
}

// TransferItemsRequest represents a single or batch item transfer
type TransferItemsRequest struct {
	Caller  string   `json:"caller" validate:"required,max=100"`
	From    string   `json:"from" validate:"required,max=100"`
	To      string   `json:"to" validate:"required,max=100"`
	ItemIDs []uint64 `json:"item_ids" validate:"required,min=1"`
	Amounts []uint64 `json:"amounts" validate:"required,min=1"`
}

// ApprovalRequest represents an operator approval change
type ApprovalRequest struct {
	Owner    string `json:"owner" validate:"required,max=100"`
	Operator string `json:"operator" validate:"required,max=100"`
	Approved bool   `json:"approved"`
}

// AdminMintItemRequest represents an administrative item grant
type AdminMintItemRequest struct {
	Caller string `json:"caller" validate:"required,max=100"`
	To     string `json:"to" validate:"required,max=100"`
	ItemID uint64 `json:"item_id"`
	Amount uint64 `json:"amount" validate:"required,min=1"`
}

// ItemBalanceResponse reports one item balance
type ItemBalanceResponse struct {
	Owner   string `json:"owner"`
	ItemID  uint64 `json:"item_id"`
	Item    string `json:"item"`
	Balance uint64 `json:"balance"`
}

// ItemsHandler handles item inventory HTTP requests
type ItemsHandler struct {
	itemsSvc items.Service
}

// NewItemsHandler creates a new items handler
func NewItemsHandler(itemsSvc items.Service) *ItemsHandler {
	return &ItemsHandler{itemsSvc: itemsSvc}
}

// Prices handles GET /items/prices
func (h *ItemsHandler) Prices(w http.ResponseWriter, r *http.Request) {
	prices := make(map[string]string, len(domain.KnownItems))
	for _, id := range domain.KnownItems {
		price, err := h.itemsSvc.ItemPrice(id)
		if err != nil {
			continue
		}
		prices[id.String()] = price.Dec()
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: prices})
}

// Balance handles GET /items/balance?owner=&item_id=
func (h *ItemsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	owner, ok := GetQueryParam(r, w, "owner")
	if !ok {
		return
	}
	rawID, ok := GetQueryParam(r, w, "item_id")
	if !ok {
		return
	}
	id, ok := PathID(w, rawID)
	if !ok {
		return
	}

	itemID := domain.ItemID(id)
	respondJSON(w, http.StatusOK, ItemBalanceResponse{
		Owner:   owner,
		ItemID:  id,
		Item:    itemID.String(),
		Balance: h.itemsSvc.BalanceOf(domain.Account(owner), itemID),
	})
}

// Buy handles POST /items/buy
func (h *ItemsHandler) Buy(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req BuyItemsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Buy items"); err != nil {
		return
	}

	payment, err := parseAmount(req.Payment)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidAmount)
		return
	}

	result, err := h.itemsSvc.BuyBatch(r.Context(), domain.Account(req.Buyer), toItemIDs(req.ItemIDs), req.Amounts, payment)
	if err != nil {
		log.Error("Purchase failed", "error", err, "buyer", req.Buyer)
		respondServiceError(w, err)
		return
	}

	log.Info("Purchase successful", "buyer", req.Buyer, "items", len(req.ItemIDs), "total", result.TotalCost.Dec())
	respondJSON(w, http.StatusOK, DataResponse{Data: result})
}

// Transfer handles POST /items/transfer
func (h *ItemsHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req TransferItemsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Transfer items"); err != nil {
		return
	}

	err := h.itemsSvc.SafeBatchTransferFrom(r.Context(),
		domain.Account(req.Caller), domain.Account(req.From), domain.Account(req.To),
		toItemIDs(req.ItemIDs), req.Amounts)
	if err != nil {
		log.Error("Item transfer failed", "error", err, "from", req.From, "to", req.To)
		respondServiceError(w, err)
		return
	}

	log.Info("Item transfer successful", "from", req.From, "to", req.To, "items", len(req.ItemIDs))
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgTransferSuccess})
}

// Approve handles POST /items/approve
func (h *ItemsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req ApprovalRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set approval"); err != nil {
		return
	}

	err := h.itemsSvc.SetApprovalForAll(r.Context(), domain.Account(req.Owner), domain.Account(req.Operator), req.Approved)
	if err != nil {
		log.Error("Approval update failed", "error", err, "owner", req.Owner, "operator", req.Operator)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgApprovalUpdated})
}

// AdminMint handles POST /items/admin/mint
func (h *ItemsHandler) AdminMint(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req AdminMintItemRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Admin mint item"); err != nil {
		return
	}

	err := h.itemsSvc.AdminMint(r.Context(), domain.Account(req.Caller), domain.Account(req.To), domain.ItemID(req.ItemID), req.Amount)
	if err != nil {
		log.Error("Admin item mint failed", "error", err, "caller", req.Caller, "item_id", req.ItemID)
		respondServiceError(w, err)
		return
	}

	log.Info("Admin item mint successful", "to", req.To, "item_id", req.ItemID, "amount", req.Amount)
	respondJSON(w, http.StatusCreated, SuccessResponse{Message: MsgItemMinted})
}

func toItemIDs(raw []uint64) []domain.ItemID {
	ids := make([]domain.ItemID, len(raw))
	for i, id := range raw {
		ids[i] = domain.ItemID(id)
	}
	return ids
}
