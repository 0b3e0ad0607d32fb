// Package sales resolves per-event demand against an inventory ledger.
//
// Two demand models exist. The real player draws an absolute demand of
// 200..600 units per product. Virtual players draw a fraction (10%..20%) of
// the stock they currently hold, so that seven events use up roughly
// 70%..140% of a round's stock.
package sales

import (
	"math"

	"github.com/user/honey-market/internal/dice"
	"github.com/user/honey-market/internal/inventory"
	"github.com/user/honey-market/internal/types"
)

const (
	MinDemand = 200
	MaxDemand = 600

	MinDemandRate = 0.10
	MaxDemandRate = 0.20
)

// Coefficients are the multipliers applied to raw demand
type Coefficients struct {
	Region   float64
	Economic float64
	Option   float64
}

// Combined is the product of all three multipliers
func (c Coefficients) Combined() float64 {
	return c.Region * c.Economic * c.Option
}

// Result aggregates one sales resolution
type Result struct {
	TotalRevenue     int                 `json:"total_revenue"`
	TotalSalesVolume int                 `json:"total_sales_volume"`
	Details          []types.SalesDetail `json:"details"`
}

// Engine is the only component that reduces stock through sales
type Engine struct {
	products   []types.Product
	diceRoller *dice.DiceRoller
}

// NewEngine creates a sales engine over the product catalog
func NewEngine(products []types.Product, diceRoller *dice.DiceRoller) *Engine {
	return &Engine{
		products:   products,
		diceRoller: diceRoller,
	}
}

// Resolve draws an absolute demand per product, caps it at the stock held and
// consumes the sold units from the ledger.
func (e *Engine) Resolve(ledger *inventory.Ledger, coef Coefficients) Result {
	combined := coef.Combined()
	return e.resolve(ledger, func(stock int) (int, int) {
		demand := e.diceRoller.IntBetween(MinDemand, MaxDemand)
		return demand, int(math.Floor(float64(demand) * combined))
	})
}

// ResolveFractional draws one demand rate for the event and applies it to the
// stock held of every product.
func (e *Engine) ResolveFractional(ledger *inventory.Ledger, coef Coefficients) Result {
	rate := e.diceRoller.FloatBetween(MinDemandRate, MaxDemandRate)
	combined := coef.Combined()
	return e.resolve(ledger, func(stock int) (int, int) {
		demand := int(math.Floor(float64(stock) * rate))
		return demand, int(math.Floor(float64(demand) * combined))
	})
}

func (e *Engine) resolve(ledger *inventory.Ledger, demandFor func(stock int) (int, int)) Result {
	snapshot := ledger.Snapshot()
	result := Result{Details: make([]types.SalesDetail, 0, len(e.products))}

	for _, p := range e.products {
		stock := snapshot[p.ID]
		demand, adjusted := demandFor(stock)
		if adjusted < 0 {
			adjusted = 0
		}

		sold := adjusted
		if stock < sold {
			sold = stock
		}
		if sold > 0 && !ledger.Consume(p.ID, sold) {
			sold = 0
		}

		revenue := sold * p.UnitPrice
		result.TotalRevenue += revenue
		result.TotalSalesVolume += sold
		result.Details = append(result.Details, types.SalesDetail{
			ProductID:      p.ID,
			Demand:         demand,
			AdjustedDemand: adjusted,
			Stock:          stock,
			Sales:          sold,
			Revenue:        revenue,
		})
	}
	return result
}

// StockingCost is round(Σ qty × unitCost × economic coefficient). Quantities
// for products missing from the catalog are ignored.
func StockingCost(products []types.Product, quantities map[string]int, economic float64) int {
	base := 0
	for _, p := range products {
		base += quantities[p.ID] * p.UnitCost
	}
	return int(math.Round(float64(base) * economic))
}
