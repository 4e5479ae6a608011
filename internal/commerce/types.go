package commerce

import "strings"

// Shop carries the storefront identity returned by the commerce API.
type Shop struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Image is an image asset attached to a product or metaobject field.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Money mirrors the API's decimal money shape. Amount is a decimal string.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// IsZero reports whether no amount was returned for the price.
func (m Money) IsZero() bool {
	return strings.TrimSpace(m.Amount) == ""
}

// Product is the catalog entry shape consumed by the storefront.
type Product struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Handle        string `json:"handle"`
	Price         Money  `json:"price"`
	FeaturedImage *Image `json:"featuredImage"`
}

// Metaobject is a generic, admin-configured content record. Field order follows
// the API response; lookup is by key.
type Metaobject struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Handle string  `json:"handle"`
	Fields []Field `json:"fields"`
}

// Field is one key/value entry of a metaobject. Value is always a string
// scalar; Reference/References carry linked entities when the field type is a
// reference type.
type Field struct {
	Key        string      `json:"key"`
	Value      string      `json:"value"`
	Type       string      `json:"type"`
	Reference  *Reference  `json:"reference,omitempty"`
	References []Reference `json:"references,omitempty"`
}

// Reference is the decoded union of entities a metaobject field can link to:
// an image asset, a product, or a nested metaobject. The populated subset of
// fields depends on the target type; callers narrow through the As* helpers
// rather than inspecting the raw shape.
type Reference struct {
	Typename string  `json:"__typename"`
	ID       string  `json:"id"`
	Handle   string  `json:"handle"`
	Title    string  `json:"title"`
	Image    *Image  `json:"image"`
	Price    Money   `json:"price"`
	Featured *Image  `json:"featuredImage"`
	Fields   []Field `json:"fields"`
}

// AsImage narrows the reference to an image payload. It returns nil unless the
// reference actually carries an image with a usable URL.
func (r *Reference) AsImage() *Image {
	if r == nil || r.Image == nil {
		return nil
	}
	if strings.TrimSpace(r.Image.URL) == "" {
		return nil
	}
	img := *r.Image
	return &img
}

// AsProduct narrows the reference to a product. The minimal completeness
// contract requires id, title, and a price; anything less reports false.
func (r *Reference) AsProduct() (Product, bool) {
	if r == nil {
		return Product{}, false
	}
	if strings.TrimSpace(r.ID) == "" || strings.TrimSpace(r.Title) == "" || r.Price.IsZero() {
		return Product{}, false
	}
	product := Product{
		ID:     r.ID,
		Title:  r.Title,
		Handle: r.Handle,
		Price:  r.Price,
	}
	if r.Featured != nil && strings.TrimSpace(r.Featured.URL) != "" {
		img := *r.Featured
		product.FeaturedImage = &img
	}
	return product, true
}

// AsMetaobject narrows the reference to a nested metaobject. References
// without fields report nil.
func (r *Reference) AsMetaobject() *Metaobject {
	if r == nil || r.Fields == nil {
		return nil
	}
	return &Metaobject{
		ID:     r.ID,
		Handle: r.Handle,
		Fields: r.Fields,
	}
}
