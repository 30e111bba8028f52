// Package remote talks to the shopping list REST API. Every response is a
// `{"data": [...]}` envelope; non-2xx answers are failures whatever the body.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/shoplist/internal/filter"
)

// MaxPageSize is the page-size ceiling sent with every list call.
const MaxPageSize = 1000

type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	// NewRef generates correlation keys for created records.
	NewRef func() string
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	newRef     func() string
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.NewRef == nil {
		cfg.NewRef = uuid.NewString
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
		newRef:     cfg.NewRef,
	}
}

// Query holds the options understood by list endpoints.
type Query struct {
	PageSize int
	Include  []string
	Filter   filter.Expr
}

func (q Query) values() url.Values {
	v := url.Values{}
	size := q.PageSize
	if size <= 0 || size > MaxPageSize {
		size = MaxPageSize
	}
	v.Set("pageSize", fmt.Sprint(size))
	if len(q.Include) > 0 {
		v.Set("include", strings.Join(q.Include, ","))
	}
	if len(q.Filter) > 0 {
		v.Set("filter", q.Filter.String())
	}
	return v
}

type envelope[T any] struct {
	Data []T              `json:"data"`
	Refs map[string]string `json:"refs,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) url(resource, id string, query url.Values) string {
	u := c.baseURL + "/" + resource
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do performs one request and decodes a 2xx body into out when out is non-nil.
// The returned error is always a *Error.
func (c *Client) do(ctx context.Context, op Op, method, resource, id string, query url.Values, body, out any) error {
	fail := func(kind Kind, status int, msg string, err error) error {
		return &Error{Resource: resource, Op: op, Kind: kind, Status: status, Message: msg, Err: err}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fail(InvalidResponse, 0, "", fmt.Errorf("marshal request: %w", err))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(resource, id, query), reader)
	if err != nil {
		return fail(NetworkFailure, 0, "", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("remote request failed", "method", method, "resource", resource, "error", err)
		return fail(NetworkFailure, 0, "", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("remote request",
		"method", method,
		"resource", resource,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(ServerRejection, resp.StatusCode, readErrorMessage(resp), nil)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(InvalidResponse, resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func readErrorMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(raw) == 0 {
		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
			return "Unauthorized"
		}
		return ""
	}
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
		return eb.Error
	}
	return strings.TrimSpace(string(raw))
}

// withRef adds the correlation key to an object payload.
func withRef(payload any, ref string) (json.RawMessage, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("payload is not a JSON object: %w", err)
	}
	r, _ := json.Marshal(ref)
	obj["ref"] = r
	return json.Marshal(obj)
}

// idString accepts both string and numeric identifiers.
func idString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("identifier %s is neither string nor number", string(raw))
}

var errCorrelation = errors.New("cannot correlate created ids")

// correlate maps submitted refs to the ids the server assigned. Keyed refs are
// preferred; without them ids are matched by position.
func correlate(refs []string, env envelope[json.RawMessage]) ([]string, error) {
	ids := make([]string, len(refs))
	if len(env.Refs) > 0 {
		for i, ref := range refs {
			id, ok := env.Refs[ref]
			if !ok {
				return nil, fmt.Errorf("%w: record %d has no id", errCorrelation, i)
			}
			ids[i] = id
		}
		return ids, nil
	}
	if len(env.Data) != len(refs) {
		return nil, fmt.Errorf("%w: submitted %d records, got %d ids", errCorrelation, len(refs), len(env.Data))
	}
	for i, raw := range env.Data {
		id, err := idString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errCorrelation, err)
		}
		ids[i] = id
	}
	return ids, nil
}
