package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/gardenledger/internal/auth"
	"github.com/verdantlabs/gardenledger/internal/domain"
	"github.com/verdantlabs/gardenledger/internal/event"
	"github.com/verdantlabs/gardenledger/internal/garden"
	"github.com/verdantlabs/gardenledger/internal/handler"
	"github.com/verdantlabs/gardenledger/internal/items"
	"github.com/verdantlabs/gardenledger/internal/plant"
	"github.com/verdantlabs/gardenledger/internal/token"
)

const (
	owner         = "owner"
	admin         = "admin"
	gardenSvcAcct = "garden"
	plantSvcAcct  = "plant-registry"
)

type env struct {
	router chi.Router
	tokens token.Service
	items  items.Service
	plants plant.Service
	garden garden.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	handler.InitValidator()

	roles := auth.NewRegistry()
	roles.Grant(auth.RoleAdmin, admin)
	roles.Grant(auth.RoleAdmin, gardenSvcAcct)
	roles.Grant(auth.RoleGameContract, gardenSvcAcct)
	roles.Grant(auth.RoleGameContract, plantSvcAcct)
	roles.Grant(auth.RoleTreasuryOwner, owner)

	bus := event.NewMemoryBus()
	tokens := token.NewService(token.DefaultConfig(), roles, bus, owner)
	itemSvc := items.NewService(items.DefaultConfig(), roles, bus)
	plants := plant.NewService(plant.DefaultConfig(), roles, bus, plantSvcAcct)
	plants.SetTokenLedger(tokens)
	gardenSvc := garden.NewService(garden.DefaultConfig(), roles, bus, itemSvc, plants, garden.Identities{
		Garden: gardenSvcAcct,
		Plants: plantSvcAcct,
	})

	tokenHandler := handler.NewTokenHandler(tokens)
	itemsHandler := handler.NewItemsHandler(itemSvc)
	plantHandler := handler.NewPlantHandler(plants)
	gardenHandler := handler.NewGardenHandler(gardenSvc)

	r := chi.NewRouter()
	r.Get("/token/balance", tokenHandler.Balance)
	r.Get("/token/supply", tokenHandler.Supply)
	r.Post("/token/transfer", tokenHandler.Transfer)
	r.Post("/token/burn", tokenHandler.Burn)
	r.Get("/items/prices", itemsHandler.Prices)
	r.Get("/items/balance", itemsHandler.Balance)
	r.Post("/items/buy", itemsHandler.Buy)
	r.Post("/items/admin/mint", itemsHandler.AdminMint)
	r.Get("/plants/{id}", plantHandler.Get)
	r.Post("/plants", plantHandler.Mint)
	r.Post("/plants/{id}/water", plantHandler.Water)
	r.Post("/garden/plant", gardenHandler.PlantSeed)
	r.Post("/garden/treasury/withdraw", gardenHandler.Withdraw)
	r.Get("/garden/stats", gardenHandler.Stats)
	r.Get("/info", handler.HandleGetInfo(tokens, "test"))

	return &env{router: r, tokens: tokens, items: itemSvc, plants: plants, garden: gardenSvc}
}

func (e *env) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestTokenHandler_Balance(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/token/balance?account=owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.BalanceResponse
	decode(t, rec, &resp)
	assert.Equal(t, token.Tokens(1_000_000).Dec(), resp.Balance)

	rec = e.do(t, http.MethodGet, "/token/balance", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenHandler_Transfer(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/token/transfer", handler.TransferRequest{
		From: owner, To: "alice", Amount: token.Tokens(10).Dec(),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, token.Tokens(10), e.tokens.BalanceOf("alice"))

	// Nothing to send back the other way beyond the balance.
	rec = e.do(t, http.MethodPost, "/token/transfer", handler.TransferRequest{
		From: "alice", To: owner, Amount: token.Tokens(100).Dec(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp handler.ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, handler.ErrMsgNotEnoughTokens, errResp.Error)
}

func TestTokenHandler_TransferValidation(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/token/transfer", handler.TransferRequest{
		From: owner, To: "alice", Amount: "not-a-number",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handler.ValidationErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, handler.ErrMsgInvalidRequestSummary, resp.Error)
	assert.Contains(t, resp.Fields, "amount")
}

func TestTokenHandler_BurnBelowMinimum(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/token/burn", handler.BurnRequest{
		Account: owner, Amount: token.Tokens(1).Dec(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp handler.ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, handler.ErrMsgBurnTooSmall, errResp.Error)
}

func TestItemsHandler_Buy(t *testing.T) {
	e := newEnv(t)

	seedPrice, err := e.items.ItemPrice(domain.ItemSeed)
	require.NoError(t, err)
	payment := new(uint256.Int).Mul(seedPrice, uint256.NewInt(3))

	rec := e.do(t, http.MethodPost, "/items/buy", handler.BuyItemsRequest{
		Buyer:   "alice",
		ItemIDs: []uint64{uint64(domain.ItemSeed)},
		Amounts: []uint64{3},
		Payment: payment.Dec(),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(3), e.items.BalanceOf("alice", domain.ItemSeed))

	// One unit short is rejected outright.
	short := new(uint256.Int).Sub(payment, uint256.NewInt(1))
	rec = e.do(t, http.MethodPost, "/items/buy", handler.BuyItemsRequest{
		Buyer:   "alice",
		ItemIDs: []uint64{uint64(domain.ItemSeed)},
		Amounts: []uint64{3},
		Payment: short.Dec(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp handler.ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, handler.ErrMsgPaymentTooSmall, errResp.Error)
}

func TestItemsHandler_AdminMintUnauthorized(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/items/admin/mint", handler.AdminMintItemRequest{
		Caller: "alice", To: "alice", ItemID: uint64(domain.ItemSeed), Amount: 1,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPlantHandler_MintAndGet(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/plants", handler.MintPlantRequest{
		Owner: "alice", Name: "Fern", Species: "pteridium",
		Payment: plant.DefaultConfig().PlantPrice.Dec(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data domain.Plant `json:"data"`
	}
	decode(t, rec, &created)
	assert.Equal(t, domain.Account("alice"), created.Data.Owner)

	rec = e.do(t, http.MethodGet, "/plants/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status handler.PlantStatusResponse
	decode(t, rec, &status)
	assert.Equal(t, 100, status.WaterLevel)
	assert.InDelta(t, 8*60*60, status.SecondsUntilWater, 1)

	rec = e.do(t, http.MethodGet, "/plants/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(t, http.MethodGet, "/plants/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlantHandler_WaterCooldown(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/plants", handler.MintPlantRequest{
		Owner: "alice", Name: "Fern", Species: "pteridium",
		Payment: plant.DefaultConfig().PlantPrice.Dec(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPost, "/plants/0/water", handler.WaterPlantRequest{Caller: "alice"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var errResp handler.ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, handler.ErrMsgOnCooldown, errResp.Error)
}

func TestGardenHandler_PlantSeedWithoutSeed(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/garden/plant", handler.PlantSeedRequest{
		Caller: "alice", Name: "Rose", Species: "rosa",
		Payment: garden.DefaultConfig().PlantCost.Dec(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp handler.ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, handler.ErrMsgNoSeed, errResp.Error)
}

func TestGardenHandler_WithdrawUnauthorized(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/garden/treasury/withdraw", handler.WithdrawRequest{Caller: "alice"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPost, "/garden/treasury/withdraw", handler.WithdrawRequest{Caller: owner})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp handler.ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, handler.ErrMsgEmptyTreasury, errResp.Error)
}

func TestHandleGetInfo(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/info", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.InfoResponse
	decode(t, rec, &resp)
	assert.Equal(t, "Garden Token", resp.Name)
	assert.Equal(t, "GDN", resp.Symbol)
	assert.Equal(t, 18, resp.Decimals)
	assert.Equal(t, "1,000,000 GDN", resp.TotalSupplyPretty)
}
