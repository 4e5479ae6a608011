package sections

import (
	"strings"

	"github.com/emberline/storefront/internal/commerce"
	"github.com/emberline/storefront/internal/metaobject"
)

// Product is the catalog entry shape rendered inside the showcase carousel.
type Product struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Handle     string          `json:"handle"`
	Price      string          `json:"price"`
	Currency   string          `json:"currency"`
	PriceLabel string          `json:"priceLabel"`
	Image      *commerce.Image `json:"image,omitempty"`
}

// Showcase is the view model for the featured-products section.
type Showcase struct {
	Heading  string    `json:"heading"`
	Products []Product `json:"products"`
}

// ResolveShowcase derives the showcase view model. Referenced products that
// fail the id+title+price completeness check are dropped silently; the list
// is capped at the configured maximum.
func ResolveShowcase(obj *commerce.Metaobject, defaults Defaults) (Showcase, metaobject.Verdict) {
	defaults = defaults.Normalize()
	lookup := metaobject.NewLookup(obj)
	if !lookup.Present() {
		return Showcase{}, metaobject.VerdictAbsent
	}

	refs := lookup.ReferenceList("products")
	products := metaobject.Project(refs,
		func(ref *commerce.Reference) bool {
			_, ok := ref.AsProduct()
			return ok
		},
		func(ref *commerce.Reference) Product {
			product, _ := ref.AsProduct()
			return Product{
				ID:         product.ID,
				Title:      product.Title,
				Handle:     product.Handle,
				Price:      product.Price.Amount,
				Currency:   product.Price.CurrencyCode,
				PriceLabel: priceLabel(product.Price),
				Image:      product.FeaturedImage,
			}
		},
	)
	if len(products) > defaults.MaxProducts {
		products = products[:defaults.MaxProducts]
	}

	showcase := Showcase{
		Heading:  lookup.TrimmedValue("heading"),
		Products: products,
	}
	return showcase, lookup.ClassifyCollection(len(products))
}

// priceLabel formats a decimal amount for display in basic currencies.
func priceLabel(m commerce.Money) string {
	amount := strings.TrimSpace(m.Amount)
	if amount == "" {
		return ""
	}
	switch strings.ToUpper(strings.TrimSpace(m.CurrencyCode)) {
	case "USD":
		return "$" + amount
	case "EUR":
		return "€" + amount
	case "GBP":
		return "£" + amount
	case "JPY":
		return "¥" + strings.TrimSuffix(strings.TrimSuffix(amount, ".00"), ".0")
	case "":
		return amount
	default:
		return strings.ToUpper(strings.TrimSpace(m.CurrencyCode)) + " " + amount
	}
}
