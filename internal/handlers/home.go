package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/emberline/storefront/internal/page"
	"github.com/emberline/storefront/internal/platform/httpx"
)

var supportedLocales = []language.Tag{
	language.English,
	language.Japanese,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// HomeHandlers serves the assembled home payload and individual sections.
type HomeHandlers struct {
	assembler *page.Assembler
}

// NewHomeHandlers constructs a new HomeHandlers instance.
func NewHomeHandlers(assembler *page.Assembler) *HomeHandlers {
	return &HomeHandlers{assembler: assembler}
}

// Routes registers the home page endpoints.
func (h *HomeHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/home", h.getHome)
	r.Get("/sections/{section}", h.getSection)
}

func (h *HomeHandlers) getHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.assembler == nil {
		httpx.WriteError(ctx, w, httpx.NewError("page_unavailable", "page assembler unavailable", http.StatusServiceUnavailable))
		return
	}

	w.Header().Set("Content-Language", negotiateLocale(r))
	// Assemble never fails: broken sections arrive in their error state and
	// the response stays a 200.
	httpx.WriteJSON(w, http.StatusOK, h.assembler.Home(ctx))
}

func (h *HomeHandlers) getSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.assembler == nil {
		httpx.WriteError(ctx, w, httpx.NewError("page_unavailable", "page assembler unavailable", http.StatusServiceUnavailable))
		return
	}

	name := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "section")))
	slot, ok := h.assembler.Section(ctx, name)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("section_unknown", "unknown section "+name, http.StatusNotFound))
		return
	}

	w.Header().Set("Content-Language", negotiateLocale(r))
	httpx.WriteJSON(w, http.StatusOK, slot)
}

// negotiateLocale picks the best supported locale from the lang query
// parameter, falling back to the Accept-Language header.
func negotiateLocale(r *http.Request) string {
	requested := strings.TrimSpace(r.URL.Query().Get("lang"))
	accept := r.Header.Get("Accept-Language")

	var prefs []language.Tag
	if requested != "" {
		if tag, err := language.Parse(requested); err == nil {
			prefs = append(prefs, tag)
		}
	}
	if accept != "" {
		if accepted, _, err := language.ParseAcceptLanguage(accept); err == nil {
			prefs = append(prefs, accepted...)
		}
	}

	tag, _, _ := localeMatcher.Match(prefs...)
	base, _ := tag.Base()
	return base.String()
}
