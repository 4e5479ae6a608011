package sections

import (
	"strings"
	"testing"

	"github.com/emberline/storefront/internal/commerce"
	"github.com/emberline/storefront/internal/metaobject"
)

func TestResolveHeroPopulatesViewModel(t *testing.T) {
	obj := &commerce.Metaobject{
		Fields: []commerce.Field{
			{Key: "heading", Value: "  Slow mornings, made well  "},
			{Key: "subheading", Value: "Goods for the quiet hours"},
			{Key: "body", Value: "**Hand-thrown** ceramics"},
			{Key: "cta_text", Value: "Shop the collection"},
			{Key: "cta_url", Value: "/collections/all"},
			{Key: "background_image", Reference: &commerce.Reference{
				Image: &commerce.Image{URL: "https://cdn.example.com/hero.jpg"},
			}},
		},
	}

	hero, verdict := ResolveHero(obj)
	if verdict != metaobject.VerdictReady {
		t.Fatalf("expected ready verdict, got %s", verdict)
	}
	if hero.Heading != "Slow mornings, made well" {
		t.Errorf("unexpected heading: %q", hero.Heading)
	}
	if !strings.Contains(hero.BodyHTML, "<strong>Hand-thrown</strong>") {
		t.Errorf("expected rendered body, got %q", hero.BodyHTML)
	}
	if hero.BackgroundImage == nil || hero.BackgroundImage.URL != "https://cdn.example.com/hero.jpg" {
		t.Errorf("unexpected background image: %+v", hero.BackgroundImage)
	}
}

func TestResolveHeroMissingFieldsDefaultEmpty(t *testing.T) {
	hero, verdict := ResolveHero(&commerce.Metaobject{Fields: []commerce.Field{}})
	if verdict != metaobject.VerdictReady {
		t.Fatalf("hero with empty fields is still ready, got %s", verdict)
	}
	if hero.Heading != "" || hero.CTAText != "" || hero.CTAURL != "" {
		t.Errorf("text fields must default to empty strings: %+v", hero)
	}
	if hero.BackgroundImage != nil {
		t.Errorf("image must default to absent, got %+v", hero.BackgroundImage)
	}
}

func TestResolveHeroNilMetaobjectIsAbsent(t *testing.T) {
	_, verdict := ResolveHero(nil)
	if verdict != metaobject.VerdictAbsent {
		t.Fatalf("expected absent, got %s", verdict)
	}
}

func TestResolveShowcaseNoProductsFieldIsEmpty(t *testing.T) {
	obj := &commerce.Metaobject{
		Fields: []commerce.Field{{Key: "heading", Value: "WELCOME"}},
	}
	showcase, verdict := ResolveShowcase(obj, Defaults{})
	if verdict != metaobject.VerdictEmpty {
		t.Fatalf("expected empty verdict, got %s", verdict)
	}
	if showcase.Heading != "WELCOME" {
		t.Errorf("heading should still resolve, got %q", showcase.Heading)
	}
	if len(showcase.Products) != 0 {
		t.Errorf("expected no products, got %d", len(showcase.Products))
	}
}

func TestResolveShowcaseDropsIncompleteProducts(t *testing.T) {
	obj := &commerce.Metaobject{
		Fields: []commerce.Field{
			{Key: "heading", Value: "Featured"},
			{Key: "products", References: []commerce.Reference{
				{ID: "gid://commerce/Product/1", Title: "Mug", Handle: "mug", Price: commerce.Money{Amount: "18.00", CurrencyCode: "USD"}},
				{ID: "gid://commerce/Product/2", Title: "No price"},
				{ID: "", Title: "No id", Price: commerce.Money{Amount: "9.00", CurrencyCode: "USD"}},
				{ID: "gid://commerce/Product/4", Title: "Carafe", Handle: "carafe", Price: commerce.Money{Amount: "42.00", CurrencyCode: "USD"},
					Featured: &commerce.Image{URL: "https://cdn.example.com/carafe.jpg"}},
			}},
		},
	}

	showcase, verdict := ResolveShowcase(obj, Defaults{})
	if verdict != metaobject.VerdictReady {
		t.Fatalf("expected ready, got %s", verdict)
	}
	if len(showcase.Products) != 2 {
		t.Fatalf("expected 2 complete products, got %d", len(showcase.Products))
	}
	if showcase.Products[0].Title != "Mug" || showcase.Products[1].Title != "Carafe" {
		t.Errorf("source order must be preserved: %+v", showcase.Products)
	}
	if showcase.Products[0].PriceLabel != "$18.00" {
		t.Errorf("unexpected price label: %q", showcase.Products[0].PriceLabel)
	}
	if showcase.Products[1].Image == nil {
		t.Error("expected featured image carried into view model")
	}
}

func TestResolveShowcaseHonoursCap(t *testing.T) {
	refs := make([]commerce.Reference, 5)
	for i := range refs {
		refs[i] = commerce.Reference{
			ID:    "gid://commerce/Product/" + string(rune('1'+i)),
			Title: "Product",
			Price: commerce.Money{Amount: "10.00", CurrencyCode: "USD"},
		}
	}
	obj := &commerce.Metaobject{
		Fields: []commerce.Field{{Key: "products", References: refs}},
	}

	showcase, verdict := ResolveShowcase(obj, Defaults{MaxProducts: 3})
	if verdict != metaobject.VerdictReady {
		t.Fatalf("expected ready, got %s", verdict)
	}
	if len(showcase.Products) != 3 {
		t.Errorf("expected cap of 3, got %d", len(showcase.Products))
	}
}

func reviewEntry(name, role, rating, text string) commerce.Reference {
	fields := []commerce.Field{
		{Key: "customer_role", Value: role},
		{Key: "rating", Value: rating},
		{Key: "review", Value: text},
	}
	if name != "" {
		fields = append([]commerce.Field{{Key: "customer_name", Value: name}}, fields...)
	}
	return commerce.Reference{ID: "gid://commerce/Metaobject/9", Fields: fields}
}

func TestResolveReviewsDropsEntriesMissingName(t *testing.T) {
	obj := &commerce.Metaobject{
		Fields: []commerce.Field{
			{Key: "heading", Value: "Kind words"},
			{Key: "reviews", References: []commerce.Reference{
				reviewEntry("Ada", "Potter", "5", "Beautiful glaze."),
				reviewEntry("", "Anonymous", "4", "Dropped entirely."),
				reviewEntry("Noor", "Baker", "4", "Pours perfectly."),
			}},
		},
	}

	reviews, verdict := ResolveReviews(obj, Defaults{AvatarBaseURL: "https://avatars.example.com"})
	if verdict != metaobject.VerdictReady {
		t.Fatalf("expected ready, got %s", verdict)
	}
	if len(reviews.Reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews.Reviews))
	}
	if reviews.Reviews[0].Name != "Ada" || reviews.Reviews[1].Name != "Noor" {
		t.Errorf("relative order must survive the drop: %+v", reviews.Reviews)
	}
	for _, review := range reviews.Reviews {
		if strings.Contains(review.Name, "Anonymous") || review.Text == "Dropped entirely." {
			t.Errorf("dropped entry surfaced: %+v", review)
		}
	}
}

func TestResolveReviewsAvatarFallbackAndRatingClamp(t *testing.T) {
	obj := &commerce.Metaobject{
		Fields: []commerce.Field{
			{Key: "reviews", References: []commerce.Reference{
				reviewEntry("Ada Lovelace", "Potter", "11", "Too enthusiastic."),
				reviewEntry("Noor", "Baker", "garbage", "Unparseable rating."),
				reviewEntry("Kai", "Roaster", "4.6", "Decimal rating."),
			}},
		},
	}

	reviews, verdict := ResolveReviews(obj, Defaults{AvatarBaseURL: "https://avatars.example.com/"})
	if verdict != metaobject.VerdictReady {
		t.Fatalf("expected ready, got %s", verdict)
	}
	if got := reviews.Reviews[0].Rating; got != 5 {
		t.Errorf("expected rating clamped to 5, got %d", got)
	}
	if got := reviews.Reviews[1].Rating; got != 5 {
		t.Errorf("expected default rating for junk, got %d", got)
	}
	if got := reviews.Reviews[2].Rating; got != 5 {
		t.Errorf("expected 4.6 rounded to 5, got %d", got)
	}
	if got := reviews.Reviews[0].AvatarURL; got != "https://avatars.example.com?username=Ada+Lovelace" {
		t.Errorf("unexpected avatar fallback: %q", got)
	}
}

func TestResolveReviewsEmptyListIsEmptyVerdict(t *testing.T) {
	obj := &commerce.Metaobject{
		Fields: []commerce.Field{{Key: "heading", Value: "Kind words"}},
	}
	_, verdict := ResolveReviews(obj, Defaults{})
	if verdict != metaobject.VerdictEmpty {
		t.Fatalf("expected empty verdict, got %s", verdict)
	}
}

func TestParseRating(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 5},
		{"3", 3},
		{"0", 1},
		{"-2", 1},
		{"9", 5},
		{"4.4", 4},
		{"not-a-number", 5},
	}
	for _, tc := range cases {
		if got := parseRating(tc.raw); got != tc.want {
			t.Errorf("parseRating(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}
