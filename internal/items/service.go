package items

import (
	"context"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/verdantlabs/gardenledger/internal/auth"
	"github.com/verdantlabs/gardenledger/internal/domain"
	"github.com/verdantlabs/gardenledger/internal/event"
	"github.com/verdantlabs/gardenledger/internal/logger"
	"github.com/verdantlabs/gardenledger/internal/metrics"
)

// BalanceQuery is one (owner, item) pair for a batch balance read.
type BalanceQuery struct {
	Owner domain.Account
	Item  domain.ItemID
}

// PurchaseResult reports the outcome of a buyBatch. Change is the overpayment
// returned to the buyer: the marketplace never retains more than the total.
type PurchaseResult struct {
	TotalCost *uint256.Int `json:"total_cost"`
	Change    *uint256.Int `json:"change"`
}

// Service defines the multi-item balance ledger operations
type Service interface {
	// Queries
	ItemPrice(itemID domain.ItemID) (*uint256.Int, error)
	BalanceOf(owner domain.Account, itemID domain.ItemID) uint64
	BalanceOfBatch(queries []BalanceQuery) []uint64
	IsApprovedForAll(owner, operator domain.Account) bool

	// Mutations
	AdminMint(ctx context.Context, caller, to domain.Account, itemID domain.ItemID, amount uint64) error
	BuyBatch(ctx context.Context, caller domain.Account, itemIDs []domain.ItemID, amounts []uint64, payment *uint256.Int) (*PurchaseResult, error)
	SetApprovalForAll(ctx context.Context, owner, operator domain.Account, approved bool) error
	SafeTransferFrom(ctx context.Context, caller, from, to domain.Account, itemID domain.ItemID, amount uint64) error
	SafeBatchTransferFrom(ctx context.Context, caller, from, to domain.Account, itemIDs []domain.ItemID, amounts []uint64) error

	// Consume debits items from an owner without a transfer. Restricted to the
	// linked game-contract identities (the orchestrator consuming a seed).
	Consume(ctx context.Context, caller, owner domain.Account, itemID domain.ItemID, amount uint64) error
}

type balanceKey struct {
	owner domain.Account
	item  domain.ItemID
}

type approvalKey struct {
	owner    domain.Account
	operator domain.Account
}

type service struct {
	cfg   Config
	roles *auth.Registry
	bus   event.Bus

	mu        sync.Mutex
	balances  map[balanceKey]uint64
	approvals map[approvalKey]bool
}

// NewService creates a new item inventory service
func NewService(cfg Config, roles *auth.Registry, bus event.Bus) Service {
	return &service{
		cfg:       cfg,
		roles:     roles,
		bus:       bus,
		balances:  make(map[balanceKey]uint64),
		approvals: make(map[approvalKey]bool),
	}
}

// ItemPrice looks up the fixed unit price. Unknown items are an error, not a
// free item: purchase arithmetic depends on every priced id being deliberate.
func (s *service) ItemPrice(itemID domain.ItemID) (*uint256.Int, error) {
	price, ok := s.cfg.Prices[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: item id %d", domain.ErrUnknownItem, itemID)
	}
	return price.Clone(), nil
}

func (s *service) BalanceOf(owner domain.Account, itemID domain.ItemID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[balanceKey{owner, itemID}]
}

// BalanceOfBatch returns one balance per query, preserving input order and
// duplicates.
func (s *service) BalanceOfBatch(queries []BalanceQuery) []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]uint64, len(queries))
	for i, q := range queries {
		out[i] = s.balances[balanceKey{q.Owner, q.Item}]
	}
	return out
}

func (s *service) IsApprovedForAll(owner, operator domain.Account) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.approvals[approvalKey{owner, operator}]
}

// AdminMint credits items out of thin air. Administrator role only.
func (s *service) AdminMint(ctx context.Context, caller, to domain.Account, itemID domain.ItemID, amount uint64) error {
	if err := s.roles.Authorize(auth.RoleAdmin, caller); err != nil {
		return err
	}
	if to.IsZero() || amount == 0 || !itemID.Known() {
		return fmt.Errorf("%w: mint requires a recipient, a known item and a non-zero amount", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	s.balances[balanceKey{to, itemID}] += amount
	s.mu.Unlock()

	s.publish(ctx, event.NewItemEvent(event.ItemMinted, domain.Zero, to, []domain.ItemID{itemID}, []uint64{amount}))
	return nil
}

// BuyBatch purchases several item kinds in one paid call. The whole batch is
// priced first: a failure leaves no balances changed. Overpayment is returned
// as change.
func (s *service) BuyBatch(ctx context.Context, caller domain.Account, itemIDs []domain.ItemID, amounts []uint64, payment *uint256.Int) (*PurchaseResult, error) {
	if caller.IsZero() || payment == nil {
		return nil, fmt.Errorf("%w: purchase requires a caller and payment", domain.ErrInvalidInput)
	}
	if len(itemIDs) != len(amounts) {
		return nil, fmt.Errorf("%w: %d item ids but %d amounts", domain.ErrInvalidInput, len(itemIDs), len(amounts))
	}
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: empty purchase", domain.ErrInvalidInput)
	}

	total := new(uint256.Int)
	for i, id := range itemIDs {
		if amounts[i] == 0 {
			return nil, fmt.Errorf("%w: zero amount for item %d", domain.ErrInvalidInput, id)
		}
		price, err := s.ItemPrice(id)
		if err != nil {
			return nil, err
		}
		line := price.Mul(price, uint256.NewInt(amounts[i]))
		if _, overflow := total.AddOverflow(total, line); overflow {
			return nil, fmt.Errorf("%w: purchase total overflows", domain.ErrInvalidInput)
		}
	}

	if payment.Lt(total) {
		return nil, fmt.Errorf("%w: need %s, got %s", domain.ErrInsufficientPayment, total.Dec(), payment.Dec())
	}

	s.mu.Lock()
	for i, id := range itemIDs {
		s.balances[balanceKey{caller, id}] += amounts[i]
	}
	s.mu.Unlock()

	for _, id := range itemIDs {
		metrics.ItemsPurchased.WithLabelValues(id.String()).Inc()
	}
	s.publish(ctx, event.NewItemEvent(event.ItemPurchased, domain.Zero, caller, itemIDs, amounts))

	return &PurchaseResult{
		TotalCost: total,
		Change:    new(uint256.Int).Sub(payment, total),
	}, nil
}

// SetApprovalForAll grants or revokes an operator's transfer rights over all
// of the owner's items. Approving yourself is meaningless and treated as a
// lenient no-op rather than an error.
func (s *service) SetApprovalForAll(ctx context.Context, owner, operator domain.Account, approved bool) error {
	if owner.IsZero() || operator.IsZero() {
		return fmt.Errorf("%w: approval requires owner and operator", domain.ErrInvalidInput)
	}
	if owner == operator {
		return nil
	}

	s.mu.Lock()
	if approved {
		s.approvals[approvalKey{owner, operator}] = true
	} else {
		delete(s.approvals, approvalKey{owner, operator})
	}
	s.mu.Unlock()
	return nil
}

// SafeTransferFrom moves items between owners. The caller must be the sender
// or an approved operator.
func (s *service) SafeTransferFrom(ctx context.Context, caller, from, to domain.Account, itemID domain.ItemID, amount uint64) error {
	return s.SafeBatchTransferFrom(ctx, caller, from, to, []domain.ItemID{itemID}, []uint64{amount})
}

// SafeBatchTransferFrom moves several item kinds atomically: the whole batch
// is validated against current balances before any line is applied, so a
// mid-batch shortfall leaves every balance untouched.
func (s *service) SafeBatchTransferFrom(ctx context.Context, caller, from, to domain.Account, itemIDs []domain.ItemID, amounts []uint64) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: transfer requires sender and recipient", domain.ErrInvalidInput)
	}
	if len(itemIDs) != len(amounts) || len(itemIDs) == 0 {
		return fmt.Errorf("%w: %d item ids but %d amounts", domain.ErrInvalidInput, len(itemIDs), len(amounts))
	}

	s.mu.Lock()
	if caller != from && !s.approvals[approvalKey{from, caller}] {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q may not transfer for %q", domain.ErrUnauthorized, caller, from)
	}

	// Aggregate per item first so duplicated ids within the batch are checked
	// against the combined requirement.
	required := make(map[domain.ItemID]uint64, len(itemIDs))
	for i, id := range itemIDs {
		if amounts[i] == 0 {
			s.mu.Unlock()
			return fmt.Errorf("%w: zero amount for item %d", domain.ErrInvalidInput, id)
		}
		required[id] += amounts[i]
	}
	for id, need := range required {
		if have := s.balances[balanceKey{from, id}]; have < need {
			s.mu.Unlock()
			return fmt.Errorf("%w: item %s: have %d, need %d", domain.ErrInsufficientBalance, id, have, need)
		}
	}

	for id, qty := range required {
		s.balances[balanceKey{from, id}] -= qty
		s.balances[balanceKey{to, id}] += qty
	}
	s.mu.Unlock()

	s.publish(ctx, event.NewItemEvent(event.ItemTransferred, from, to, itemIDs, amounts))
	return nil
}

// Consume burns items from an owner's balance. Game-contract role only: this
// is the linked orchestrator spending a seed on the owner's behalf.
func (s *service) Consume(ctx context.Context, caller, owner domain.Account, itemID domain.ItemID, amount uint64) error {
	if err := s.roles.Authorize(auth.RoleGameContract, caller); err != nil {
		return err
	}
	if owner.IsZero() || amount == 0 {
		return fmt.Errorf("%w: consume requires an owner and a non-zero amount", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	key := balanceKey{owner, itemID}
	if s.balances[key] < amount {
		s.mu.Unlock()
		return fmt.Errorf("%w: item %s: have %d, need %d", domain.ErrInsufficientBalance, itemID, s.balances[key], amount)
	}
	s.balances[key] -= amount
	s.mu.Unlock()

	s.publish(ctx, event.NewItemEvent(event.ItemTransferred, owner, domain.Zero, []domain.ItemID{itemID}, []uint64{amount}))
	return nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error("Failed to publish item event", "error", err, "type", evt.Type)
	}
}
