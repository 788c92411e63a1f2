package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/km-arc/go-entob/framework/config"
	"github.com/km-arc/go-entob/framework/entity"
)

var (
	// ErrDuplicate is returned by Record for an id already in the ledger.
	ErrDuplicate = errors.New("ledger: payment already recorded")

	// ErrNoID is returned by Record for an entity without a string id.
	ErrNoID = errors.New("ledger: payment has no id")
)

// Ledger is an in-memory, concurrency-safe store of payment entities.
// Entries are kept in insertion order.
type Ledger struct {
	mu      sync.RWMutex
	name    string
	order   []string
	entries map[string]*entity.Entity
	logger  *slog.Logger
}

// NewLedger creates an empty ledger named after the application.
func NewLedger(cfg *config.Config, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		name:    cfg.Name(),
		entries: make(map[string]*entity.Entity),
		logger:  logger.With("ledger", cfg.Name()),
	}
}

// Name returns the ledger name.
func (l *Ledger) Name() string { return l.name }

// Record stores a copy of p under its id.
func (l *Ledger) Record(p *entity.Entity) error {
	id, err := entity.Value[string](p, "id")
	if err != nil || id == "" {
		return ErrNoID
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	l.entries[id] = p.Clone()
	l.order = append(l.order, id)
	l.logger.Info("payment recorded", "id", id, "payment", p.String())
	return nil
}

// Get returns a copy of the payment recorded under id.
func (l *Ledger) Get(id string) (*entity.Entity, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.entries[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// List returns copies of the recorded payments, oldest first. A non-empty
// status keeps only payments in that status.
func (l *Ledger) List(status string) []*entity.Entity {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*entity.Entity, 0, len(l.order))
	for _, id := range l.order {
		p := l.entries[id]
		if status != "" {
			if s, _ := entity.Value[string](p, "status"); s != status {
				continue
			}
		}
		out = append(out, p.Clone())
	}
	return out
}

// Len returns the number of recorded payments.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}

// Totals sums the amounts of payments that did not fail, per currency.
func (l *Ledger) Totals() map[string]decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	totals := make(map[string]decimal.Decimal)
	for _, id := range l.order {
		p := l.entries[id]
		if s, _ := entity.Value[string](p, "status"); s == "failed" {
			continue
		}
		money, err := entity.Value[*entity.Entity](p, "money")
		if err != nil || money == nil {
			continue
		}
		amount, _ := entity.Value[decimal.Decimal](money, "amount")
		currency, _ := entity.Value[string](money, "currency")
		totals[currency] = totals[currency].Add(amount)
	}
	return totals
}
