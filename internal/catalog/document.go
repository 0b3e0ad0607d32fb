package catalog

import (
	"errors"
	"fmt"

	"github.com/user/honey-market/internal/types"
)

// document is the on-the-wire catalog shape shared by the JSON sources and the
// embedded YAML copy.
type document struct {
	Regions  []regionDoc           `json:"regions" yaml:"regions"`
	Products []types.Product       `json:"products" yaml:"products"`
	Events   map[string][]eventDoc `json:"events" yaml:"events"`
}

type regionDoc struct {
	Type      string           `json:"type" yaml:"type"`
	BaseRent  int              `json:"base_rent" yaml:"base_rent"`
	Districts []types.District `json:"districts" yaml:"districts"`
}

// eventDoc accepts the older field names still found in exported catalogs:
// "choices" for options and "narrative" for story.
type eventDoc struct {
	ID        string      `json:"id" yaml:"id"`
	Title     string      `json:"title" yaml:"title"`
	Signal    string      `json:"signal" yaml:"signal"`
	Story     string      `json:"story" yaml:"story"`
	Narrative string      `json:"narrative,omitempty" yaml:"narrative"`
	Options   []optionDoc `json:"options,omitempty" yaml:"options"`
	Choices   []optionDoc `json:"choices,omitempty" yaml:"choices"`
}

// optionDoc accepts "result" for feedback and "multiplier" for coefficient.
type optionDoc struct {
	ID          string        `json:"id" yaml:"id"`
	Text        string        `json:"text" yaml:"text"`
	Feedback    string        `json:"feedback" yaml:"feedback"`
	Result      string        `json:"result,omitempty" yaml:"result"`
	Coefficient *float64      `json:"coefficient,omitempty" yaml:"coefficient"`
	Multiplier  *float64      `json:"multiplier,omitempty" yaml:"multiplier"`
	Correct     bool          `json:"correct,omitempty" yaml:"correct"`
	Effects     types.Effects `json:"effects" yaml:"effects"`
}

var (
	errNoRegions  = errors.New("catalog has no regions")
	errNoProducts = errors.New("catalog has no products")
)

func (o optionDoc) normalize() types.Option {
	opt := types.Option{
		ID:          o.ID,
		Text:        o.Text,
		Feedback:    o.Feedback,
		Coefficient: 1.0,
		Correct:     o.Correct,
		Effects:     o.Effects,
	}
	if opt.Feedback == "" {
		opt.Feedback = o.Result
	}
	switch {
	case o.Coefficient != nil:
		opt.Coefficient = *o.Coefficient
	case o.Multiplier != nil:
		opt.Coefficient = *o.Multiplier
	}
	return opt
}

func (e eventDoc) normalize() (types.Event, error) {
	raw := e.Options
	if len(raw) == 0 {
		raw = e.Choices
	}
	if len(raw) == 0 {
		return types.Event{}, fmt.Errorf("event %q has no options", e.ID)
	}

	ev := types.Event{
		ID:      e.ID,
		Title:   e.Title,
		Signal:  types.EconomicSignal(e.Signal),
		Story:   e.Story,
		Options: make([]types.Option, 0, len(raw)),
	}
	if ev.Story == "" {
		ev.Story = e.Narrative
	}
	switch ev.Signal {
	case types.SignalGreen, types.SignalRed, types.SignalBlue:
	default:
		ev.Signal = types.SignalGreen
	}

	seen := make(map[string]bool, len(raw))
	for _, o := range raw {
		if seen[o.ID] {
			return types.Event{}, fmt.Errorf("event %q: duplicate option %q", e.ID, o.ID)
		}
		seen[o.ID] = true
		ev.Options = append(ev.Options, o.normalize())
	}
	return ev, nil
}

// build turns a decoded document into a Catalog
func (d *document) build(origin string) (*Catalog, error) {
	if len(d.Regions) == 0 {
		return nil, errNoRegions
	}
	if len(d.Products) == 0 {
		return nil, errNoProducts
	}

	c := &Catalog{
		regions:  make(map[types.RegionType]Region, len(d.Regions)),
		products: append([]types.Product(nil), d.Products...),
		events:   make(map[types.RegionType][]types.Event, len(d.Events)),
		origin:   origin,
	}

	for _, r := range d.Regions {
		rt := types.RegionType(r.Type)
		if !rt.Valid() {
			return nil, fmt.Errorf("unknown region type %q", r.Type)
		}
		if len(r.Districts) == 0 {
			return nil, fmt.Errorf("region %q has no districts", r.Type)
		}
		c.regions[rt] = Region{
			Type:      rt,
			BaseRent:  r.BaseRent,
			Districts: append([]types.District(nil), r.Districts...),
		}
	}

	for key, docs := range d.Events {
		rt := types.RegionType(key)
		if _, ok := c.regions[rt]; !ok {
			return nil, fmt.Errorf("events for unknown region %q", key)
		}
		events := make([]types.Event, 0, len(docs))
		for _, doc := range docs {
			ev, err := doc.normalize()
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
		}
		c.events[rt] = events
	}

	return c, nil
}
