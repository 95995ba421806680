package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Authorization errors
	ErrMsgUnauthorized = "unauthorized"
	ErrMsgNotOwner     = "not plant owner"

	// Payment errors
	ErrMsgInsufficientPayment = "insufficient payment"
	ErrMsgInsufficientBalance = "insufficient balance"
	ErrMsgEmptyTreasury       = "no balance to withdraw"

	// Token supply errors
	ErrMsgSupplyExceeded     = "exceeds max supply"
	ErrMsgDailyLimitExceeded = "exceeds daily mint limit"
	ErrMsgBelowMinimum       = "below minimum burn amount"

	// Cooldown errors
	ErrMsgCooldownActive = "cooldown active"

	// Plant errors
	ErrMsgPlantNotFound  = "plant not found"
	ErrMsgPlantNotMature = "plant not mature"
	ErrMsgPlantDead      = "plant is dead"
	ErrMsgNoSeedItem     = "no seed item"

	// Item errors
	ErrMsgUnknownItem = "unknown item"

	// Validation errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Authorization errors
	ErrUnauthorized = errors.New(ErrMsgUnauthorized)
	ErrNotOwner     = errors.New(ErrMsgNotOwner)

	// Payment errors
	ErrInsufficientPayment = errors.New(ErrMsgInsufficientPayment)
	ErrInsufficientBalance = errors.New(ErrMsgInsufficientBalance)
	ErrEmptyTreasury       = errors.New(ErrMsgEmptyTreasury)

	// Token supply errors
	ErrSupplyExceeded     = errors.New(ErrMsgSupplyExceeded)
	ErrDailyLimitExceeded = errors.New(ErrMsgDailyLimitExceeded)
	ErrBelowMinimum       = errors.New(ErrMsgBelowMinimum)

	// Cooldown errors
	ErrCooldownActive = errors.New(ErrMsgCooldownActive)

	// Plant errors
	ErrPlantNotFound  = errors.New(ErrMsgPlantNotFound)
	ErrPlantNotMature = errors.New(ErrMsgPlantNotMature)
	ErrPlantDead      = errors.New(ErrMsgPlantDead)
	ErrNoSeedItem     = errors.New(ErrMsgNoSeedItem)

	// Item errors
	ErrUnknownItem = errors.New(ErrMsgUnknownItem)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
