// Package quote maintains a quotation sheet. Unlike the cart, unit prices
// are frozen when a line is created and survive later tier changes; lines
// merge by product id only, with no option dimension.
package quote

import (
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/pricing"
)

// Line is one quoted product. UnitPrice is resolved from the tier current
// when the line is first added and never re-resolved afterwards.
type Line struct {
	Product   domain.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	UnitPrice int64          `json:"unit_price"`
	Subtotal  int64          `json:"subtotal"`
}

type Quote struct {
	Lines []Line `json:"lines"`
}

// Add accumulates quantity into the existing line for the product, keeping
// its frozen unit price, or appends a new line priced at the current tier.
func (q *Quote) Add(p domain.Product, quantity int, tier domain.Tier) {
	for i := range q.Lines {
		if q.Lines[i].Product.ID == p.ID {
			q.Lines[i].Quantity += quantity
			q.Lines[i].Subtotal = q.Lines[i].UnitPrice * int64(q.Lines[i].Quantity)
			return
		}
	}
	unitPrice := pricing.PriceFor(p, tier)
	q.Lines = append(q.Lines, Line{
		Product:   p,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice * int64(quantity),
	})
}

// Remove deletes the line for the product; no-op on miss.
func (q *Quote) Remove(productID string) {
	for i := range q.Lines {
		if q.Lines[i].Product.ID == productID {
			q.Lines = append(q.Lines[:i], q.Lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity replaces the quantity and recomputes the subtotal from the
// frozen unit price; no-op on miss.
func (q *Quote) UpdateQuantity(productID string, quantity int) {
	for i := range q.Lines {
		if q.Lines[i].Product.ID == productID {
			q.Lines[i].Quantity = quantity
			q.Lines[i].Subtotal = q.Lines[i].UnitPrice * int64(quantity)
			return
		}
	}
}

// Clear empties the quote.
func (q *Quote) Clear() {
	q.Lines = nil
}

// Total sums the frozen subtotals. No tier lookup happens at read time.
func (q *Quote) Total() int64 {
	var total int64
	for _, line := range q.Lines {
		total += line.Subtotal
	}
	return total
}
