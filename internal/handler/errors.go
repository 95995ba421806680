package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidAmount         = "Invalid amount: expected a decimal string"
	ErrMsgInvalidID             = "Invalid id"

	// Generic messages
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	// Token messages
	ErrMsgNotEnoughTokens  = "Not enough tokens"
	ErrMsgSupplyCapReached = "Supply cap reached"
	ErrMsgDailyLimit       = "Daily mint limit reached. Try again later"
	ErrMsgBurnTooSmall     = "Burn amount is below the minimum"

	// Item messages
	ErrMsgUnknownItem     = "Unknown item"
	ErrMsgNotEnoughItems  = "Not enough items"
	ErrMsgPaymentTooSmall = "Payment does not cover the total cost"

	// Plant messages
	ErrMsgPlantNotFound  = "Plant not found"
	ErrMsgPlantNotYours  = "That plant belongs to someone else"
	ErrMsgPlantNotMature = "Plant is not ready to harvest"
	ErrMsgPlantDead      = "That plant has died"
	ErrMsgNoSeed         = "You need a seed item to plant"
	ErrMsgOnCooldown     = "Action is on cooldown. Try again later"

	// Treasury messages
	ErrMsgEmptyTreasury = "No balance to withdraw"

	// Auth messages
	ErrMsgNotAuthorized = "You are not authorized for that action"
)

// Success messages for API responses
const (
	MsgTransferSuccess = "Transfer successful"
	MsgBurnSuccess     = "Tokens burned"
	MsgApprovalUpdated = "Approval updated"
	MsgPlantWatered    = "Plant watered"
	MsgStageUpdated    = "Growth stage updated"
	MsgDepositSuccess  = "Deposit received"
	MsgItemMinted      = "Item minted"
)
