// Package pricing resolves the unit price of a product for a member tier.
package pricing

import "github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"

// PriceFor returns the unit price of p for the given tier. An unrecognized
// tier and the guest tier fall back to the retail column. Some catalog rows
// label the non-member column "guest" instead of "retail", so the fallback
// accepts either. A product with neither column is a catalog integrity
// problem validated upstream, not here.
func PriceFor(p domain.Product, tier domain.Tier) int64 {
	if price, ok := p.Prices[tier]; ok {
		return price
	}
	if price, ok := p.Prices[domain.TierRetail]; ok {
		return price
	}
	return p.Prices[domain.TierGuest]
}
