package sections

import (
	"net/url"
	"strings"
)

// Defaults lifts the presentation fallback constants out of the individual
// resolvers so every section draws from one configured source.
type Defaults struct {
	ShopName      string
	AvatarBaseURL string
	MaxProducts   int
	MaxReviews    int
}

const (
	fallbackShopName    = "Store"
	fallbackMaxProducts = 20
	fallbackMaxReviews  = 50
)

// Normalize fills zero values with the package fallbacks.
func (d Defaults) Normalize() Defaults {
	if strings.TrimSpace(d.ShopName) == "" {
		d.ShopName = fallbackShopName
	}
	if d.MaxProducts <= 0 {
		d.MaxProducts = fallbackMaxProducts
	}
	if d.MaxReviews <= 0 {
		d.MaxReviews = fallbackMaxReviews
	}
	return d
}

// avatarFor derives a deterministic avatar URL for a reviewer without one.
func (d Defaults) avatarFor(name string) string {
	base := strings.TrimSpace(d.AvatarBaseURL)
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "?username=" + url.QueryEscape(strings.TrimSpace(name))
}
