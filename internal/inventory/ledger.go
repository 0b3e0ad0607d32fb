// Package inventory keeps per-product stock for one actor.
package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNegativeQuantity is returned when stocking a negative amount
var ErrNegativeQuantity = errors.New("quantity must not be negative")

// StockingRecord is one entry in the stocking history
type StockingRecord struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Round     int       `json:"round"`
	At        time.Time `json:"at"`
}

// Ledger maps product ids to non-negative quantities.
// Stocking increments, Consume decrements and never goes below zero.
type Ledger struct {
	quantities map[string]int
	history    []StockingRecord
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		quantities: make(map[string]int),
		history:    make([]StockingRecord, 0),
	}
}

// Stock adds qty units of a product and records it in the history
func (l *Ledger) Stock(productID string, qty, round int) error {
	if qty < 0 {
		return fmt.Errorf("stock %s: %w", productID, ErrNegativeQuantity)
	}
	l.quantities[productID] += qty
	l.history = append(l.history, StockingRecord{
		ProductID: productID,
		Quantity:  qty,
		Round:     round,
		At:        time.Now(),
	})
	return nil
}

// Consume removes qty units only if that many are held. On false nothing changed.
func (l *Ledger) Consume(productID string, qty int) bool {
	if qty < 0 {
		return false
	}
	if l.quantities[productID] < qty {
		return false
	}
	l.quantities[productID] -= qty
	return true
}

// Quantity returns the units held of a product
func (l *Ledger) Quantity(productID string) int {
	return l.quantities[productID]
}

// Total returns the units held across all products
func (l *Ledger) Total() int {
	total := 0
	for _, qty := range l.quantities {
		total += qty
	}
	return total
}

// Snapshot returns a copy of the quantities
func (l *Ledger) Snapshot() map[string]int {
	snap := make(map[string]int, len(l.quantities))
	for id, qty := range l.quantities {
		snap[id] = qty
	}
	return snap
}

// History returns a copy of the stocking history
func (l *Ledger) History() []StockingRecord {
	out := make([]StockingRecord, len(l.history))
	copy(out, l.history)
	return out
}

type ledgerJSON struct {
	Quantities map[string]int   `json:"quantities"`
	History    []StockingRecord `json:"history"`
}

// MarshalJSON encodes quantities together with the stocking history
func (l *Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(ledgerJSON{Quantities: l.quantities, History: l.history})
}

// UnmarshalJSON restores a ledger. Negative quantities are rejected.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var raw ledgerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	quantities := make(map[string]int, len(raw.Quantities))
	for id, qty := range raw.Quantities {
		if qty < 0 {
			return fmt.Errorf("product %s: %w", id, ErrNegativeQuantity)
		}
		quantities[id] = qty
	}
	l.quantities = quantities
	l.history = raw.History
	if l.history == nil {
		l.history = make([]StockingRecord, 0)
	}
	return nil
}
