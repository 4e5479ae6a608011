package sections

import (
	"strconv"
	"strings"

	"github.com/emberline/storefront/internal/commerce"
	"github.com/emberline/storefront/internal/metaobject"
)

const (
	defaultRating = 5
	minRating     = 1
	maxRating     = 5
)

// Review is one customer testimonial rendered in the reviews section.
type Review struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
}

// Reviews is the view model for the customer-reviews section.
type Reviews struct {
	Heading string   `json:"heading"`
	Reviews []Review `json:"reviews"`
}

// ResolveReviews derives the reviews view model. Each referenced entry is a
// nested metaobject; entries missing a customer name or review text are
// dropped without a placeholder. Missing avatars fall back to the configured
// avatar service, and ratings parse leniently into the 1..5 range.
func ResolveReviews(obj *commerce.Metaobject, defaults Defaults) (Reviews, metaobject.Verdict) {
	defaults = defaults.Normalize()
	lookup := metaobject.NewLookup(obj)
	if !lookup.Present() {
		return Reviews{}, metaobject.VerdictAbsent
	}

	refs := lookup.ReferenceList("reviews")
	reviews := metaobject.Project(refs,
		func(ref *commerce.Reference) bool {
			entry := metaobject.NewLookup(ref.AsMetaobject())
			return entry.TrimmedValue("customer_name") != "" && entry.TrimmedValue("review") != ""
		},
		func(ref *commerce.Reference) Review {
			entry := metaobject.NewLookup(ref.AsMetaobject())
			name := entry.TrimmedValue("customer_name")

			avatar := entry.TrimmedValue("avatar_url")
			if avatar == "" {
				if img := entry.ImageRef("avatar"); img != nil {
					avatar = img.URL
				}
			}
			if avatar == "" {
				avatar = defaults.avatarFor(name)
			}

			return Review{
				Name:      name,
				Role:      entry.TrimmedValue("customer_role"),
				AvatarURL: avatar,
				Rating:    parseRating(entry.TrimmedValue("rating")),
				Text:      entry.TrimmedValue("review"),
			}
		},
	)
	if len(reviews) > defaults.MaxReviews {
		reviews = reviews[:defaults.MaxReviews]
	}

	resolved := Reviews{
		Heading: lookup.TrimmedValue("heading"),
		Reviews: reviews,
	}
	return resolved, lookup.ClassifyCollection(len(reviews))
}

// parseRating tolerates decimals and junk; anything unparseable gets the
// default, and out-of-range values clamp into 1..5.
func parseRating(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultRating
	}
	rating, err := strconv.Atoi(raw)
	if err != nil {
		if parsed, floatErr := strconv.ParseFloat(raw, 64); floatErr == nil {
			rating = int(parsed + 0.5)
		} else {
			return defaultRating
		}
	}
	if rating < minRating {
		return minRating
	}
	if rating > maxRating {
		return maxRating
	}
	return rating
}
