package domain

// Tier is a member rank determining which price column applies to a product.
type Tier string

const (
	TierGuest   Tier = "guest"
	TierRetail  Tier = "retail"
	TierMember  Tier = "member"
	TierPremium Tier = "premium"
	TierVIP     Tier = "vip"
)

// OptionGroup is a named product option (e.g. "size") with its allowed values.
type OptionGroup struct {
	Name   string   `json:"name" bson:"name"`
	Values []string `json:"values" bson:"values"`
}

// Product is catalog data, read-only to the cart/quote/coupon core.
// Prices maps tier name to a unit price in the smallest currency unit.
// The retail entry is always present and acts as the non-member fallback.
type Product struct {
	ID          string         `json:"id" bson:"id"`
	Name        string         `json:"name" bson:"name"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
	Prices      map[Tier]int64 `json:"prices" bson:"prices"`
	MinQuantity int            `json:"min_quantity" bson:"min_quantity"`
	Stock       int            `json:"stock" bson:"stock"`
	MaxQuantity int            `json:"max_quantity,omitempty" bson:"max_quantity,omitempty"` // 0 means unbounded
	Options     []OptionGroup  `json:"options,omitempty" bson:"options,omitempty"`
	ImageURL    string         `json:"image_url,omitempty" bson:"image_url,omitempty"`
	CategoryID  string         `json:"category_id,omitempty" bson:"category_id,omitempty"`
}

// EffectiveMax returns the largest quantity a single line may hold:
// min(stock, maxQuantity), with maxQuantity 0 treated as unbounded.
func (p Product) EffectiveMax() int {
	if p.MaxQuantity > 0 && p.MaxQuantity < p.Stock {
		return p.MaxQuantity
	}
	return p.Stock
}

// Category groups products for listing.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
	Order    int    `json:"order"`
}
