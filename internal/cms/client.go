package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rialms/scottspence.me/internal/model"
)

// Source resolves the portfolio content query.
type Source interface {
	Fetch(ctx context.Context) (model.PageData, error)
}

type ClientOptions struct {
	Endpoint string
	Token    string
	Order    Order
	Timeout  time.Duration
	Retries  int
	Logger   *slog.Logger
	// HTTPClient replaces the client used for individual attempts.
	HTTPClient *http.Client
}

// Client queries a GraphQL content API.
type Client struct {
	endpoint string
	token    string
	order    Order
	http     *retryablehttp.Client
}

var _ Source = &Client{}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("no content API endpoint configured")
	}

	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.Retries
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	if opts.Logger != nil {
		rc.Logger = opts.Logger
	}

	if opts.HTTPClient != nil {
		hc := *opts.HTTPClient
		rc.HTTPClient = &hc
	}

	rc.HTTPClient.Timeout = opts.Timeout

	return &Client{
		endpoint: opts.Endpoint,
		token:    opts.Token,
		order:    opts.Order,
		http:     rc,
	}, nil
}

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlResponse struct {
	Data   *model.Content `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// GraphQLError is one entry of a GraphQL "errors" array. Path elements are
// field names (string) or list indices (float64).
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

func (e GraphQLError) String() string {
	if len(e.Path) == 0 {
		return e.Message
	}

	elems := make([]string, len(e.Path))
	for i := range e.Path {
		elems[i] = fmt.Sprint(e.Path[i])
	}

	return e.Message + " (at " + strings.Join(elems, ".") + ")"
}

// QueryError is returned when the API answers with GraphQL errors.
type QueryError struct {
	Errors []GraphQLError
}

func (e *QueryError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i := range e.Errors {
		msgs[i] = e.Errors[i].String()
	}

	return "content query failed: " + strings.Join(msgs, "; ")
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("content API responded with %d: %s", e.StatusCode, e.Body)
}

// Fetch runs the asset query.
func (c *Client) Fetch(ctx context.Context) (model.PageData, error) {
	var data model.PageData

	body, err := json.Marshal(graphqlRequest{Query: AssetQuery(c.order)})
	if err != nil {
		return data, fmt.Errorf("marshal query: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return data, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return data, fmt.Errorf("query content API: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))

		return data, &StatusError{
			StatusCode: res.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	var resp graphqlResponse

	err = json.NewDecoder(res.Body).Decode(&resp)
	if err != nil {
		return data, fmt.Errorf("decode response: %w", err)
	}

	if len(resp.Errors) > 0 {
		return data, &QueryError{Errors: resp.Errors}
	}

	if resp.Data == nil {
		return data, fmt.Errorf("response contained no data")
	}

	data.GraphCMSData = *resp.Data

	return data, nil
}
