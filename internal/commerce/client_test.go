package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientShopDecodesEnvelope(t *testing.T) {
	var gotToken, gotVersion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(accessTokenHeader)
		gotVersion = r.Header.Get(apiVersionHeader)

		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Query == "" {
			t.Error("expected query document in request body")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"shop":{"name":"Emberline","description":"Goods for slow mornings"}}}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{
		Endpoint:    server.URL,
		AccessToken: "tok_test",
		APIVersion:  "2025-07",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	shop, err := client.Shop(context.Background())
	if err != nil {
		t.Fatalf("shop query: %v", err)
	}
	if shop.Name != "Emberline" {
		t.Errorf("unexpected shop name: %s", shop.Name)
	}
	if gotToken != "tok_test" {
		t.Errorf("expected access token header, got %q", gotToken)
	}
	if gotVersion != "2025-07" {
		t.Errorf("expected api version header, got %q", gotVersion)
	}
}

func TestClientMetaobjectMissingIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"metaobject":null}}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	obj, err := client.MetaobjectByHandle(context.Background(), "hero_banner", "homepage-hero")
	if err != nil {
		t.Fatalf("expected missing metaobject to be nil result, got error %v", err)
	}
	if obj != nil {
		t.Fatalf("expected nil metaobject, got %+v", obj)
	}
}

func TestClientMetaobjectFlattensReferenceConnections(t *testing.T) {
	body := `{"data":{"metaobject":{
		"id":"gid://commerce/Metaobject/1",
		"type":"product_showcase",
		"handle":"homepage-showcase",
		"fields":[
			{"key":"heading","value":"Featured","type":"single_line_text_field"},
			{"key":"products","value":"","type":"list.product_reference","references":{"nodes":[
				{"__typename":"Product","id":"gid://commerce/Product/1","title":"Mug","handle":"mug","price":{"amount":"18.00","currencyCode":"USD"}}
			]}}
		]}}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	obj, err := client.MetaobjectByHandle(context.Background(), "product_showcase", "homepage-showcase")
	if err != nil {
		t.Fatalf("metaobject query: %v", err)
	}
	if obj == nil {
		t.Fatal("expected metaobject")
	}
	if len(obj.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(obj.Fields))
	}
	refs := obj.Fields[1].References
	if len(refs) != 1 {
		t.Fatalf("expected 1 flattened reference, got %d", len(refs))
	}
	product, ok := refs[0].AsProduct()
	if !ok {
		t.Fatal("expected reference to narrow to product")
	}
	if product.Title != "Mug" || product.Price.Amount != "18.00" {
		t.Errorf("unexpected product: %+v", product)
	}
}

func TestClientGraphQLErrorsBecomeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"throttled"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Shop(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if len(apiErr.Messages) != 1 || apiErr.Messages[0] != "throttled" {
		t.Errorf("unexpected messages: %v", apiErr.Messages)
	}
}

func TestClientServerErrorBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Shop(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", apiErr.Status)
	}
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	if _, err := NewClient(ClientOptions{}); !errors.Is(err, ErrEndpointMissing) {
		t.Fatalf("expected ErrEndpointMissing, got %v", err)
	}
}
