// Package cart maintains the order-in-progress staged from the catalog.
// Lines are merged by product + option identity; totals are resolved against
// the member tier current at read time.
package cart

import (
	"sort"
	"strings"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/pricing"
)

// emptyOptionKey is the fixed marker for a line without option selections,
// so that nil and empty maps serialize to the same identity.
const emptyOptionKey = "-"

// optionEscaper escapes the pair separators inside names and values so the
// serialization stays injective: a value containing ";" or "=" cannot forge
// the key of a different selection.
var optionEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, "=", `\=`)

// OptionKey canonically serializes an option selection: group names sorted,
// joined as name=value pairs. Two selections are the same identity iff their
// keys are equal, regardless of map iteration order.
func OptionKey(opts map[string]string) string {
	if len(opts) == 0 {
		return emptyOptionKey
	}
	names := make([]string, 0, len(opts))
	for name := range opts {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = optionEscaper.Replace(name) + "=" + optionEscaper.Replace(opts[name])
	}
	return strings.Join(pairs, ";")
}

// Line is one cart entry. The product is a snapshot from the catalog; the
// cart never mutates it.
type Line struct {
	Product         domain.Product    `json:"product"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

// Key is the line identity: product id plus canonical option serialization.
func (l Line) Key() string {
	return l.Product.ID + ":" + OptionKey(l.SelectedOptions)
}

// Cart holds staged lines. No two lines share the same identity key; adds
// merge into the existing line, new lines append at the end.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add merges quantity into the line with the same identity, or appends a new
// line. Quantity bounds are not enforced here; the caller clamps.
func (c *Cart) Add(p domain.Product, quantity int, opts map[string]string) {
	key := p.ID + ":" + OptionKey(opts)
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity += quantity
			return
		}
	}
	c.Lines = append(c.Lines, Line{Product: p, Quantity: quantity, SelectedOptions: opts})
}

// Remove deletes the line with the matching identity. Missing lines are a
// no-op, not an error.
func (c *Cart) Remove(productID string, opts map[string]string) {
	key := productID + ":" + OptionKey(opts)
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity replaces the quantity on the matching line; no-op on miss.
// The caller is responsible for clamping to product bounds first.
func (c *Cart) UpdateQuantity(productID string, quantity int, opts map[string]string) {
	key := productID + ":" + OptionKey(opts)
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Total prices every line against the tier current at read time. Unlike
// quotes, cart totals float with the member's tier.
func (c *Cart) Total(tier domain.Tier) int64 {
	var total int64
	for _, line := range c.Lines {
		total += pricing.PriceFor(line.Product, tier) * int64(line.Quantity)
	}
	return total
}
