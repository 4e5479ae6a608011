package sections

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/emberline/storefront/internal/commerce"
	"github.com/emberline/storefront/internal/metaobject"
)

// FallbackContent is locally-defined placeholder content used when a section
// comes back Absent from the commerce API. It lets non-production
// environments render a complete page before any content is configured
// upstream; production deployments typically ship without a fallback file.
type FallbackContent struct {
	Hero    *FallbackHero    `yaml:"hero"`
	Reviews []FallbackReview `yaml:"reviews"`
}

// FallbackHero mirrors the hero view model in YAML-friendly form.
type FallbackHero struct {
	Heading            string `yaml:"heading"`
	Subheading         string `yaml:"subheading"`
	Body               string `yaml:"body"`
	CTAText            string `yaml:"cta_text"`
	CTAURL             string `yaml:"cta_url"`
	BackgroundImageURL string `yaml:"background_image_url"`
}

// FallbackReview mirrors one review entry in YAML-friendly form.
type FallbackReview struct {
	Name   string `yaml:"name"`
	Role   string `yaml:"role"`
	Avatar string `yaml:"avatar"`
	Rating int    `yaml:"rating"`
	Text   string `yaml:"text"`
}

// LoadFallback reads the fallback content file. A missing path or file yields
// empty content without error; only unreadable or malformed files fail.
func LoadFallback(path string) (FallbackContent, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return FallbackContent{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return FallbackContent{}, nil
	}
	if err != nil {
		return FallbackContent{}, fmt.Errorf("sections: read fallback %s: %w", path, err)
	}
	var content FallbackContent
	if err := yaml.Unmarshal(data, &content); err != nil {
		return FallbackContent{}, fmt.Errorf("sections: parse fallback %s: %w", path, err)
	}
	return content, nil
}

// ToHero converts the fallback entry into the hero view model, rendering the
// body the same way remote content renders.
func (f *FallbackHero) ToHero() (Hero, bool) {
	if f == nil {
		return Hero{}, false
	}
	hero := Hero{
		Heading:    strings.TrimSpace(f.Heading),
		Subheading: strings.TrimSpace(f.Subheading),
		BodyHTML:   metaobject.RenderRichText(f.Body),
		CTAText:    strings.TrimSpace(f.CTAText),
		CTAURL:     strings.TrimSpace(f.CTAURL),
	}
	if url := strings.TrimSpace(f.BackgroundImageURL); url != "" {
		hero.BackgroundImage = &commerce.Image{URL: url}
	}
	return hero, hero.Heading != ""
}

// ToReviews converts the fallback entries into the reviews view model,
// applying the same completeness rule as remote entries.
func (c FallbackContent) ToReviews(defaults Defaults) (Reviews, bool) {
	defaults = defaults.Normalize()
	out := make([]Review, 0, len(c.Reviews))
	for _, entry := range c.Reviews {
		name := strings.TrimSpace(entry.Name)
		text := strings.TrimSpace(entry.Text)
		if name == "" || text == "" {
			continue
		}
		avatar := strings.TrimSpace(entry.Avatar)
		if avatar == "" {
			avatar = defaults.avatarFor(name)
		}
		rating := entry.Rating
		if rating < minRating || rating > maxRating {
			rating = defaultRating
		}
		out = append(out, Review{
			Name:      name,
			Role:      strings.TrimSpace(entry.Role),
			AvatarURL: avatar,
			Rating:    rating,
			Text:      text,
		})
	}
	if len(out) > defaults.MaxReviews {
		out = out[:defaults.MaxReviews]
	}
	return Reviews{Reviews: out}, len(out) > 0
}
