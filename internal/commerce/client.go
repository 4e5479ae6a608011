package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout    = 8 * time.Second
	accessTokenHeader = "X-Storefront-Access-Token"
	apiVersionHeader  = "X-Storefront-API-Version"
	maxResponseBytes  = 4 << 20
)

var tracer = otel.Tracer("github.com/emberline/storefront/internal/commerce")

// ErrEndpointMissing is returned when a client is constructed without an endpoint.
var ErrEndpointMissing = errors.New("commerce: endpoint is required")

// APIError is a transport or GraphQL-level failure from the commerce API. It is
// kept distinct from "fetched successfully but no content": a nil metaobject
// with a nil error means the entry simply does not exist.
type APIError struct {
	Operation string
	Status    int
	Messages  []string
	Err       error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("commerce: %s: %v", e.Operation, e.Err)
	case len(e.Messages) > 0:
		return fmt.Sprintf("commerce: %s: %s", e.Operation, strings.Join(e.Messages, "; "))
	case e.Status != 0:
		return fmt.Sprintf("commerce: %s: status %d", e.Operation, e.Status)
	default:
		return fmt.Sprintf("commerce: %s failed", e.Operation)
	}
}

// Unwrap exposes the underlying transport error when present.
func (e *APIError) Unwrap() error { return e.Err }

// ClientOptions groups constructor parameters for the commerce client.
type ClientOptions struct {
	Endpoint    string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client issues GraphQL queries against the remote commerce API.
type Client struct {
	endpoint string
	token    string
	version  string
	http     *http.Client
}

// NewClient constructs a commerce API client.
func NewClient(opts ClientOptions) (*Client, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, ErrEndpointMissing
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint: endpoint,
		token:    strings.TrimSpace(opts.AccessToken),
		version:  strings.TrimSpace(opts.APIVersion),
		http:     httpClient,
	}, nil
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// execute posts the query document and decodes the data envelope into out.
// GraphQL errors and transport failures both surface as *APIError.
func (c *Client) execute(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	ctx, span := tracer.Start(ctx, "commerce."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("graphql.operation", operation)),
	)
	defer span.End()

	fail := func(apiErr *APIError) error {
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Error())
		return apiErr
	}

	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fail(&APIError{Operation: operation, Err: err})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fail(&APIError{Operation: operation, Err: err})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(accessTokenHeader, c.token)
	}
	if c.version != "" {
		req.Header.Set(apiVersionHeader, c.version)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(&APIError{Operation: operation, Err: err})
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		return fail(&APIError{Operation: operation, Status: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fail(&APIError{Operation: operation, Err: err})
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fail(&APIError{Operation: operation, Err: err})
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, gqlErr := range envelope.Errors {
			if msg := strings.TrimSpace(gqlErr.Message); msg != "" {
				messages = append(messages, msg)
			}
		}
		return fail(&APIError{Operation: operation, Status: resp.StatusCode, Messages: messages})
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fail(&APIError{Operation: operation, Err: err})
	}
	return nil
}
