package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/holiman/uint256"
	"github.com/joho/godotenv"

	"github.com/verdantlabs/gardenledger/internal/domain"
	"github.com/verdantlabs/gardenledger/internal/garden"
	"github.com/verdantlabs/gardenledger/internal/items"
	"github.com/verdantlabs/gardenledger/internal/plant"
	"github.com/verdantlabs/gardenledger/internal/token"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string

	// DatabaseURL enables the durable event log when set.
	DatabaseURL string

	// Service accounts granted the privileged roles at startup.
	AdminAccount         domain.Account
	OwnerAccount         domain.Account
	TreasuryOwnerAccount domain.Account

	Token  token.Config
	Items  items.Config
	Plant  plant.Config
	Garden garden.Config
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:             getEnv("LOG_LEVEL", "INFO"),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		AdminAccount:         domain.Account(getEnv("ADMIN_ACCOUNT", "admin")),
		OwnerAccount:         domain.Account(getEnv("OWNER_ACCOUNT", "owner")),
		TreasuryOwnerAccount: domain.Account(getEnv("TREASURY_OWNER_ACCOUNT", "owner")),
		Token:                token.DefaultConfig(),
		Items:                items.DefaultConfig(),
		Plant:                plant.DefaultConfig(),
		Garden:               garden.DefaultConfig(),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := loadAmount(&cfg.Token.MaxSupply, "TOKEN_MAX_SUPPLY"); err != nil {
		return nil, err
	}
	if err := loadAmount(&cfg.Token.MaxDailyMint, "TOKEN_MAX_DAILY_MINT"); err != nil {
		return nil, err
	}
	if err := loadAmount(&cfg.Token.MinBurnAmount, "TOKEN_MIN_BURN"); err != nil {
		return nil, err
	}
	if err := loadAmount(&cfg.Token.InitialSupply, "TOKEN_INITIAL_SUPPLY"); err != nil {
		return nil, err
	}
	if err := loadDuration(&cfg.Token.BurnCooldown, "TOKEN_BURN_COOLDOWN"); err != nil {
		return nil, err
	}

	if err := loadAmount(&cfg.Plant.PlantPrice, "PLANT_PRICE"); err != nil {
		return nil, err
	}
	if err := loadDuration(&cfg.Plant.StageDuration, "PLANT_STAGE_DURATION"); err != nil {
		return nil, err
	}
	if err := loadDuration(&cfg.Plant.WaterCooldown, "PLANT_WATER_COOLDOWN"); err != nil {
		return nil, err
	}
	if err := loadDuration(&cfg.Plant.DeathThreshold, "PLANT_DEATH_THRESHOLD"); err != nil {
		return nil, err
	}

	if err := loadAmount(&cfg.Garden.PlantCost, "GARDEN_PLANT_COST"); err != nil {
		return nil, err
	}

	if cfg.OwnerAccount.IsZero() {
		return nil, fmt.Errorf("OWNER_ACCOUNT must be set: the initial supply needs a holder")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// loadAmount overrides dst with the env value when set. Amounts are decimal
// strings in the smallest unit.
func loadAmount(dst **uint256.Int, key string) error {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return nil
	}
	amount, err := uint256.FromDecimal(value)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	*dst = amount
	return nil
}

// loadDuration overrides dst with the env value when set, e.g. "8h" or "30m".
func loadDuration(dst *time.Duration, key string) error {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	*dst = d
	return nil
}
