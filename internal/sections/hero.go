package sections

import (
	"github.com/emberline/storefront/internal/commerce"
	"github.com/emberline/storefront/internal/metaobject"
)

// Hero is the view model for the landing hero banner. Text fields are always
// strings, never null; only the background image is presence-branched.
type Hero struct {
	Heading         string          `json:"heading"`
	Subheading      string          `json:"subheading"`
	BodyHTML        string          `json:"bodyHtml,omitempty"`
	CTAText         string          `json:"ctaText"`
	CTAURL          string          `json:"ctaUrl"`
	BackgroundImage *commerce.Image `json:"backgroundImage,omitempty"`
}

// ResolveHero derives the hero view model from its metaobject. The hero has
// no required collection, so the verdict is Absent or Ready.
func ResolveHero(obj *commerce.Metaobject) (Hero, metaobject.Verdict) {
	lookup := metaobject.NewLookup(obj)
	if verdict := lookup.Classify(); verdict != metaobject.VerdictReady {
		return Hero{}, verdict
	}

	hero := Hero{
		Heading:         lookup.TrimmedValue("heading"),
		Subheading:      lookup.TrimmedValue("subheading"),
		BodyHTML:        lookup.RichTextValue("body"),
		CTAText:         lookup.TrimmedValue("cta_text"),
		CTAURL:          lookup.TrimmedValue("cta_url"),
		BackgroundImage: lookup.ImageRef("background_image"),
	}
	return hero, metaobject.VerdictReady
}
