// Package page fans out the per-section content fetches, applies the section
// resolvers to whichever outcome each fetch produced, and assembles the home
// payload. Failures are contained per slot: one broken section never blocks
// the others, and the assembler always returns a renderable payload.
package page

import (
	"context"
	"errors"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/emberline/storefront/internal/commerce"
	"github.com/emberline/storefront/internal/metaobject"
	"github.com/emberline/storefront/internal/platform/requestctx"
	"github.com/emberline/storefront/internal/sections"
)

// Section states exposed on the wire. The first three mirror the resolver
// verdicts; StateError marks a transport/API failure, which is never conflated
// with "fetched fine but nothing configured".
const (
	StateAbsent   = "absent"
	StateEmpty    = "empty"
	StateReady    = "ready"
	StateError    = "error"
	StateDisabled = "disabled"
)

// ShopInfo is the storefront identity block of the home payload.
type ShopInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// HeroSlot carries the hero section state and, when ready or placeholdered,
// its view model.
type HeroSlot struct {
	State       string         `json:"state"`
	Placeholder bool           `json:"placeholder,omitempty"`
	Data        *sections.Hero `json:"data,omitempty"`
}

// ShowcaseSlot carries the product showcase section.
type ShowcaseSlot struct {
	State string             `json:"state"`
	Data  *sections.Showcase `json:"data,omitempty"`
}

// ReviewsSlot carries the customer reviews section.
type ReviewsSlot struct {
	State       string            `json:"state"`
	Placeholder bool              `json:"placeholder,omitempty"`
	Data        *sections.Reviews `json:"data,omitempty"`
}

// Home is the assembled home-page payload. It is request-scoped and immutable
// once returned.
type Home struct {
	RenderID string       `json:"renderId"`
	Shop     ShopInfo     `json:"shop"`
	Hero     HeroSlot     `json:"hero"`
	Showcase ShowcaseSlot `json:"showcase"`
	Reviews  ReviewsSlot  `json:"reviews"`
	Degraded bool         `json:"degraded,omitempty"`
}

// Fetcher is the slice of the commerce client the assembler needs.
type Fetcher interface {
	Shop(ctx context.Context) (commerce.Shop, error)
	MetaobjectByHandle(ctx context.Context, objectType, handle string) (*commerce.Metaobject, error)
}

// ContentRefs names the metaobject entry backing each section.
type ContentRefs struct {
	HeroType       string
	HeroHandle     string
	ShowcaseType   string
	ShowcaseHandle string
	ReviewsType    string
	ReviewsHandle  string
}

// AssemblerDeps groups constructor parameters for the page assembler.
type AssemblerDeps struct {
	Client           Fetcher
	Content          ContentRefs
	Defaults         sections.Defaults
	Fallback         sections.FallbackContent
	ShowPlaceholders bool
	EnableReviews    bool
	NewRenderID      func() string
}

// ErrClientMissing signals that the commerce client dependency is absent.
var ErrClientMissing = errors.New("page: commerce client is required")

// Assembler builds home payloads from concurrently fetched section content.
type Assembler struct {
	client           Fetcher
	content          ContentRefs
	defaults         sections.Defaults
	fallback         sections.FallbackContent
	showPlaceholders bool
	enableReviews    bool
	newRenderID      func() string
}

// NewAssembler wires dependencies into a page assembler.
func NewAssembler(deps AssemblerDeps) (*Assembler, error) {
	if deps.Client == nil {
		return nil, ErrClientMissing
	}
	newRenderID := deps.NewRenderID
	if newRenderID == nil {
		newRenderID = func() string { return ulid.Make().String() }
	}
	return &Assembler{
		client:           deps.Client,
		content:          deps.Content,
		defaults:         deps.Defaults.Normalize(),
		fallback:         deps.Fallback,
		showPlaceholders: deps.ShowPlaceholders,
		enableReviews:    deps.EnableReviews,
		newRenderID:      newRenderID,
	}, nil
}

// outcome is one settled slot of the fan-out: a value or a failure, never
// both pending.
type outcome[T any] struct {
	value T
	err   error
}

// Home assembles the home payload. It never returns an error: fetch failures
// degrade their own slot, and an unexpected panic degrades to a minimal valid
// payload with the default shop identity and empty sections.
func (a *Assembler) Home(ctx context.Context) (home Home) {
	logger := requestctx.Logger(ctx)

	home = Home{
		RenderID: a.newRenderID(),
		Shop:     ShopInfo{Name: a.defaults.ShopName},
		Hero:     HeroSlot{State: StateAbsent},
		Showcase: ShowcaseSlot{State: StateAbsent},
		Reviews:  ReviewsSlot{State: StateAbsent},
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("home assembly panicked", zap.Any("panic", r))
			home = Home{
				RenderID: home.RenderID,
				Shop:     ShopInfo{Name: a.defaults.ShopName},
				Hero:     HeroSlot{State: StateAbsent},
				Showcase: ShowcaseSlot{State: StateAbsent},
				Reviews:  ReviewsSlot{State: StateAbsent},
				Degraded: true,
			}
		}
	}()

	var (
		shopOut     outcome[commerce.Shop]
		heroOut     outcome[*commerce.Metaobject]
		showcaseOut outcome[*commerce.Metaobject]
		reviewsOut  outcome[*commerce.Metaobject]
	)

	// Settle-all: every task records its own outcome and reports success to
	// the group, so one failing fetch never cancels its siblings.
	var g errgroup.Group
	g.Go(settle(&shopOut, func() (commerce.Shop, error) {
		return a.client.Shop(ctx)
	}))
	g.Go(settle(&heroOut, func() (*commerce.Metaobject, error) {
		return a.client.MetaobjectByHandle(ctx, a.content.HeroType, a.content.HeroHandle)
	}))
	g.Go(settle(&showcaseOut, func() (*commerce.Metaobject, error) {
		return a.client.MetaobjectByHandle(ctx, a.content.ShowcaseType, a.content.ShowcaseHandle)
	}))
	if a.enableReviews {
		g.Go(settle(&reviewsOut, func() (*commerce.Metaobject, error) {
			return a.client.MetaobjectByHandle(ctx, a.content.ReviewsType, a.content.ReviewsHandle)
		}))
	}
	_ = g.Wait()

	home.Shop = a.resolveShop(logger, shopOut)
	home.Hero = a.resolveHero(logger, heroOut)
	home.Showcase = a.resolveShowcase(logger, showcaseOut)
	if a.enableReviews {
		home.Reviews = a.resolveReviews(logger, reviewsOut)
	} else {
		home.Reviews = ReviewsSlot{State: StateDisabled}
	}
	home.Degraded = shopOut.err != nil || home.Hero.State == StateError ||
		home.Showcase.State == StateError || home.Reviews.State == StateError

	return home
}

// Section resolves a single named section, fetching only its backing entry.
// ok reports false for unknown section names.
func (a *Assembler) Section(ctx context.Context, name string) (any, bool) {
	logger := requestctx.Logger(ctx)
	switch name {
	case "hero":
		var out outcome[*commerce.Metaobject]
		out.value, out.err = a.client.MetaobjectByHandle(ctx, a.content.HeroType, a.content.HeroHandle)
		return a.resolveHero(logger, out), true
	case "showcase":
		var out outcome[*commerce.Metaobject]
		out.value, out.err = a.client.MetaobjectByHandle(ctx, a.content.ShowcaseType, a.content.ShowcaseHandle)
		return a.resolveShowcase(logger, out), true
	case "reviews":
		if !a.enableReviews {
			return ReviewsSlot{State: StateDisabled}, true
		}
		var out outcome[*commerce.Metaobject]
		out.value, out.err = a.client.MetaobjectByHandle(ctx, a.content.ReviewsType, a.content.ReviewsHandle)
		return a.resolveReviews(logger, out), true
	default:
		return nil, false
	}
}

// settle adapts a fallible fetch into an errgroup task that records its own
// outcome and never fails the group. A panic inside the fetch settles the
// slot as an error instead of tearing down the page.
func settle[T any](out *outcome[T], fetch func() (T, error)) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				out.err = &commerce.APIError{Operation: "fetch", Err: errors.New("panic during fetch")}
			}
		}()
		out.value, out.err = fetch()
		return nil
	}
}

func (a *Assembler) resolveShop(logger *zap.Logger, out outcome[commerce.Shop]) ShopInfo {
	if out.err != nil {
		logger.Warn("shop fetch failed", zap.Error(out.err))
		return ShopInfo{Name: a.defaults.ShopName}
	}
	name := strings.TrimSpace(out.value.Name)
	if name == "" {
		name = a.defaults.ShopName
	}
	return ShopInfo{Name: name, Description: strings.TrimSpace(out.value.Description)}
}

func (a *Assembler) resolveHero(logger *zap.Logger, out outcome[*commerce.Metaobject]) HeroSlot {
	if out.err != nil {
		logger.Warn("hero fetch failed", zap.Error(out.err))
		return HeroSlot{State: StateError}
	}
	hero, verdict := sections.ResolveHero(out.value)
	if verdict == metaobject.VerdictReady {
		return HeroSlot{State: StateReady, Data: &hero}
	}
	if a.showPlaceholders {
		if placeholder, ok := a.fallback.Hero.ToHero(); ok {
			return HeroSlot{State: verdict.String(), Placeholder: true, Data: &placeholder}
		}
	}
	return HeroSlot{State: verdict.String()}
}

func (a *Assembler) resolveShowcase(logger *zap.Logger, out outcome[*commerce.Metaobject]) ShowcaseSlot {
	if out.err != nil {
		logger.Warn("showcase fetch failed", zap.Error(out.err))
		return ShowcaseSlot{State: StateError}
	}
	showcase, verdict := sections.ResolveShowcase(out.value, a.defaults)
	if verdict == metaobject.VerdictReady {
		return ShowcaseSlot{State: StateReady, Data: &showcase}
	}
	return ShowcaseSlot{State: verdict.String()}
}

func (a *Assembler) resolveReviews(logger *zap.Logger, out outcome[*commerce.Metaobject]) ReviewsSlot {
	if out.err != nil {
		logger.Warn("reviews fetch failed", zap.Error(out.err))
		return ReviewsSlot{State: StateError}
	}
	reviews, verdict := sections.ResolveReviews(out.value, a.defaults)
	if verdict == metaobject.VerdictReady {
		return ReviewsSlot{State: StateReady, Data: &reviews}
	}
	if verdict == metaobject.VerdictAbsent && a.showPlaceholders {
		if placeholder, ok := a.fallback.ToReviews(a.defaults); ok {
			return ReviewsSlot{State: StateAbsent, Placeholder: true, Data: &placeholder}
		}
	}
	return ReviewsSlot{State: verdict.String()}
}
