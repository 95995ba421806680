package handler

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/verdantlabs/gardenledger/internal/token"
)

// InfoResponse describes the deployed token and game parameters
type InfoResponse struct {
	Name              string `json:"name"`
	Symbol            string `json:"symbol"`
	Decimals          int    `json:"decimals"`
	TotalSupply       string `json:"total_supply"`
	TotalSupplyPretty string `json:"total_supply_pretty"`
	Version           string `json:"version"`
}

// HandleGetInfo handles the /info endpoint
func HandleGetInfo(tokenSvc token.Service, version string) http.HandlerFunc {
	printer := message.NewPrinter(language.English)

	return func(w http.ResponseWriter, r *http.Request) {
		supply := tokenSvc.TotalSupply()

		// Whole tokens with thousands separators for human readers.
		whole := supply.Clone()
		whole.Div(whole, token.Unit())

		respondJSON(w, http.StatusOK, InfoResponse{
			Name:              tokenSvc.Name(),
			Symbol:            tokenSvc.Symbol(),
			Decimals:          tokenSvc.Decimals(),
			TotalSupply:       supply.Dec(),
			TotalSupplyPretty: printer.Sprintf("%d %s", whole.Uint64(), tokenSvc.Symbol()),
			Version:           version,
		})
	}
}
