// Package catalog holds the static region, product and event tables.
package catalog

import (
	"math"

	"github.com/user/honey-market/internal/types"
)

// Region is a region type with its base rent and districts
type Region struct {
	Type      types.RegionType `json:"type"`
	BaseRent  int              `json:"base_rent"`
	Districts []types.District `json:"districts"`
}

// Catalog is fully resident in memory before any round starts and is never
// mutated afterwards.
type Catalog struct {
	regions  map[types.RegionType]Region
	products []types.Product
	events   map[types.RegionType][]types.Event
	origin   string
}

// Origin names where the catalog was loaded from (embedded, file, http)
func (c *Catalog) Origin() string {
	return c.origin
}

// Regions returns the region types present in the catalog, in display order
func (c *Catalog) Regions() []types.RegionType {
	out := make([]types.RegionType, 0, len(c.regions))
	for _, rt := range types.AllRegions {
		if _, ok := c.regions[rt]; ok {
			out = append(out, rt)
		}
	}
	return out
}

// HasRegion reports whether the region type is configured
func (c *Catalog) HasRegion(rt types.RegionType) bool {
	_, ok := c.regions[rt]
	return ok
}

// GetDistricts returns a copy of the districts of a region type
func (c *Catalog) GetDistricts(rt types.RegionType) []types.District {
	region, ok := c.regions[rt]
	if !ok {
		return nil
	}
	out := make([]types.District, len(region.Districts))
	copy(out, region.Districts)
	return out
}

// District looks a district up by name
func (c *Catalog) District(rt types.RegionType, name string) (types.District, bool) {
	for _, d := range c.regions[rt].Districts {
		if d.Name == name {
			return d, true
		}
	}
	return types.District{}, false
}

// GetCoefficient returns the district coefficient, or 1.0 when unknown
func (c *Catalog) GetCoefficient(rt types.RegionType, district string) float64 {
	if d, ok := c.District(rt, district); ok {
		return d.Coefficient
	}
	return 1.0
}

// BaseRent returns the base rent of a region type
func (c *Catalog) BaseRent(rt types.RegionType) int {
	return c.regions[rt].BaseRent
}

// CalculateTotalRent is round(baseRent × coefficient)
func (c *Catalog) CalculateTotalRent(rt types.RegionType, coefficient float64) int {
	return int(math.Round(float64(c.BaseRent(rt)) * coefficient))
}

// Products returns the product catalog in catalog order
func (c *Catalog) Products() []types.Product {
	out := make([]types.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product looks a product up by id
func (c *Catalog) Product(id string) (types.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return types.Product{}, false
}

// EventCount returns how many events a region type has
func (c *Catalog) EventCount(rt types.RegionType) int {
	return len(c.events[rt])
}

// Event returns a deep copy of the event at index idx for a region type
func (c *Catalog) Event(rt types.RegionType, idx int) (*types.Event, bool) {
	events := c.events[rt]
	if idx < 0 || idx >= len(events) {
		return nil, false
	}
	ev := events[idx]
	ev.Options = append([]types.Option(nil), ev.Options...)
	return &ev, true
}
