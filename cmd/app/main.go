package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/verdantlabs/gardenledger/internal/auth"
	"github.com/verdantlabs/gardenledger/internal/config"
	"github.com/verdantlabs/gardenledger/internal/domain"
	"github.com/verdantlabs/gardenledger/internal/event"
	"github.com/verdantlabs/gardenledger/internal/eventlog"
	"github.com/verdantlabs/gardenledger/internal/garden"
	"github.com/verdantlabs/gardenledger/internal/handler"
	"github.com/verdantlabs/gardenledger/internal/items"
	"github.com/verdantlabs/gardenledger/internal/plant"
	"github.com/verdantlabs/gardenledger/internal/server"
	"github.com/verdantlabs/gardenledger/internal/stream"
	"github.com/verdantlabs/gardenledger/internal/token"
)

// Internal identities the services present to each other.
const (
	gardenAccount   = domain.Account("garden-orchestrator")
	registryAccount = domain.Account("plant-registry")
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	initLogger(cfg)
	handler.InitValidator()

	roles := auth.NewRegistry()
	roles.Grant(auth.RoleAdmin, cfg.AdminAccount)
	roles.Grant(auth.RoleTreasuryOwner, cfg.TreasuryOwnerAccount)
	roles.Grant(auth.RoleReserve, cfg.OwnerAccount)
	// The plant registry mints rewards; the orchestrator consumes seeds and
	// re-credits them when a planting step fails.
	roles.Grant(auth.RoleGameContract, registryAccount)
	roles.Grant(auth.RoleGameContract, gardenAccount)
	roles.Grant(auth.RoleAdmin, gardenAccount)

	bus := event.NewMemoryBus()

	tokens := token.NewService(cfg.Token, roles, bus, cfg.OwnerAccount)
	itemSvc := items.NewService(cfg.Items, roles, bus)
	plants := plant.NewService(cfg.Plant, roles, bus, registryAccount)
	plants.SetTokenLedger(tokens)
	gardenSvc := garden.NewService(cfg.Garden, roles, bus, itemSvc, plants, garden.Identities{
		Garden: gardenAccount,
		Token:  domain.Account("token-ledger"),
		Items:  domain.Account("item-inventory"),
		Plants: registryAccount,
	})

	deps := server.Deps{
		Tokens: tokens,
		Items:  itemSvc,
		Plants: plants,
		Garden: gardenSvc,
	}

	// Durable event log is optional; without a database the bus still feeds
	// the live stream.
	if cfg.DatabaseURL != "" {
		if err := eventlog.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to migrate event log schema: %v", err)
		}
		pool, err := eventlog.NewPool(context.Background(), cfg.DatabaseURL, 10)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		eventlog.NewService(eventlog.NewPostgresRepository(pool)).Attach(bus)
		deps.DB = pool
		slog.Default().Info("Durable event log enabled")
	}

	hub := stream.NewHub(bus)
	defer hub.Close()
	deps.Stream = hub

	srv := server.NewServer(cfg.Port, deps)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case sig := <-quit:
		slog.Default().Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Default().Error("Graceful shutdown failed", "error", err)
	}
}
