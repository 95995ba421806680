package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking. These represent domain events that can be published
// and consumed by multiple modules.
//
// Event types follow the pattern: <entity>.<action> (e.g., "plant.watered").
// Exactly one event is published per successful causing operation.
const (
	// EventTypeTokenMinted is published when reward tokens are minted
	EventTypeTokenMinted = "token.minted"

	// EventTypeTokenBurned is published when tokens are burned
	EventTypeTokenBurned = "token.burned"

	// EventTypeTokenTransferred is published on a token transfer
	EventTypeTokenTransferred = "token.transferred"

	// EventTypeItemPurchased is published when items are bought through the marketplace
	EventTypeItemPurchased = "item.purchased"

	// EventTypeItemMinted is published on a privileged item mint
	EventTypeItemMinted = "item.minted"

	// EventTypeItemTransferred is published when item balances move between owners
	EventTypeItemTransferred = "item.transferred"

	// EventTypePlantSeeded is published when a new plant is minted
	EventTypePlantSeeded = "plant.seeded"

	// EventTypePlantWatered is published on a successful watering
	EventTypePlantWatered = "plant.watered"

	// EventTypeStageAdvanced is published when a plant's growth stage advances
	EventTypeStageAdvanced = "plant.stage_advanced"

	// EventTypePlantDied is published when a plant is observed dead
	EventTypePlantDied = "plant.died"

	// EventTypePlantHarvested is published when a plant is harvested and retired
	EventTypePlantHarvested = "plant.harvested"

	// EventTypeTreasuryDeposit is published when funds arrive in the treasury
	EventTypeTreasuryDeposit = "garden.deposit"

	// EventTypeTreasuryWithdrawal is published when the treasury is drained by its owner
	EventTypeTreasuryWithdrawal = "garden.withdrawal"
)
