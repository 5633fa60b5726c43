// ABOUTME: Low-level remote store client: auth, row CRUD, and named RPCs.
// ABOUTME: Speaks the BaaS REST dialect (GoTrue auth + PostgREST rows).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/normalize"
)

var (
	// ErrInvalidCredentials reports a rejected email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound reports a missing row.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthenticated reports an operation attempted without identity.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// RemoteError is a non-2xx response from the remote store.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote store: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote store: status %d", e.Status)
}

// Identity is the slice of the session provider the stores depend on.
// Implemented by session.Provider.
type Identity interface {
	// CurrentUser returns the authenticated user, or nil.
	CurrentUser() *models.User
	// Subscribe registers a callback invoked on every identity change.
	// The callback receives nil on logout. Returns an unsubscribe func.
	Subscribe(fn func(*models.User)) func()
}

// Client is the shared transport used by every entity store.
type Client struct {
	http   *resty.Client
	apiKey string
	log    zerolog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a remote store client for the given endpoint and API key.
func NewClient(baseURL, apiKey string, log zerolog.Logger) *Client {
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:   hc,
		apiKey: apiKey,
		log:    log.With().Str("component", "store").Logger(),
	}
}

// SetToken installs the access token used for authenticated requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken drops the access token, reverting to anonymous access.
func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token != "" {
		return c.token
	}
	return c.apiKey
}

func (c *Client) req(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.apiKey).
		SetAuthToken(c.bearer())
}

func remoteErr(resp *resty.Response) error {
	re := &RemoteError{Status: resp.StatusCode()}
	var body struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		Code             any    `json:"code"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		switch {
		case body.Message != "":
			re.Message = body.Message
		case body.Msg != "":
			re.Message = body.Msg
		case body.ErrorDescription != "":
			re.Message = body.ErrorDescription
		}
		if body.Code != nil {
			re.Code = fmt.Sprintf("%v", body.Code)
		}
	}
	if resp.StatusCode() == http.StatusNotFound || re.Code == "PGRST116" {
		return fmt.Errorf("%w: %s", ErrNotFound, re.Message)
	}
	return re
}

// Filter is one row predicate.
type Filter struct {
	Column string
	Op     string // eq, gte, lte, ...
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: "eq", Value: value}
}

// Gte builds a greater-than-or-equal filter.
func Gte(column string, value any) Filter {
	return Filter{Column: column, Op: "gte", Value: value}
}

// Query describes a row selection.
type Query struct {
	Select  string
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

func (q Query) params() map[string]string {
	p := make(map[string]string)
	if q.Select != "" {
		p["select"] = q.Select
	} else {
		p["select"] = "*"
	}
	for _, f := range q.Filters {
		p[f.Column] = fmt.Sprintf("%s.%v", f.Op, f.Value)
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		p["order"] = q.OrderBy + "." + dir
	}
	if q.Limit > 0 {
		p["limit"] = strconv.Itoa(q.Limit)
	}
	return p
}

// SelectRows fetches rows from a table.
func (c *Client) SelectRows(ctx context.Context, table string, q Query) ([]normalize.Record, error) {
	var rows []normalize.Record
	resp, err := c.req(ctx).
		SetQueryParams(q.params()).
		SetResult(&rows).
		Get("/rest/v1/" + table)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	if resp.IsError() {
		return nil, remoteErr(resp)
	}
	return rows, nil
}

// InsertRow inserts a single row and returns the stored representation.
// A missing id is generated client-side.
func (c *Client) InsertRow(ctx context.Context, table string, row normalize.Record) (normalize.Record, error) {
	if _, ok := row["id"]; !ok {
		row["id"] = uuid.NewString()
	}

	var rows []normalize.Record
	resp, err := c.req(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody([]normalize.Record{row}).
		SetResult(&rows).
		Post("/rest/v1/" + table)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	if resp.IsError() {
		return nil, remoteErr(resp)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert %s: empty response", table)
	}
	return rows[0], nil
}

// UpdateRow patches a row by id and returns the stored representation.
func (c *Client) UpdateRow(ctx context.Context, table, id string, patch normalize.Record) (normalize.Record, error) {
	var rows []normalize.Record
	resp, err := c.req(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", "eq."+id).
		SetBody(patch).
		SetResult(&rows).
		Patch("/rest/v1/" + table)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	if resp.IsError() {
		return nil, remoteErr(resp)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("update %s: %w", table, ErrNotFound)
	}
	return rows[0], nil
}

// DeleteRow removes a row by id.
func (c *Client) DeleteRow(ctx context.Context, table, id string) error {
	resp, err := c.req(ctx).
		SetQueryParam("id", "eq."+id).
		Delete("/rest/v1/" + table)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if resp.IsError() {
		return remoteErr(resp)
	}
	return nil
}

// UpsertRow inserts or updates a row keyed by onConflict columns.
func (c *Client) UpsertRow(ctx context.Context, table string, row normalize.Record, onConflict string) (normalize.Record, error) {
	var rows []normalize.Record
	resp, err := c.req(ctx).
		SetHeader("Prefer", "return=representation,resolution=merge-duplicates").
		SetQueryParam("on_conflict", onConflict).
		SetBody([]normalize.Record{row}).
		SetResult(&rows).
		Post("/rest/v1/" + table)
	if err != nil {
		return nil, fmt.Errorf("upsert %s: %w", table, err)
	}
	if resp.IsError() {
		return nil, remoteErr(resp)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("upsert %s: empty response", table)
	}
	return rows[0], nil
}

// RPC invokes a named remote procedure and decodes the result into dest.
// dest may be nil when the result is irrelevant.
func (c *Client) RPC(ctx context.Context, fn string, params map[string]any, dest any) error {
	if params == nil {
		params = map[string]any{}
	}
	req := c.req(ctx).SetBody(params)
	if dest != nil {
		req.SetResult(dest)
	}
	resp, err := req.Post("/rest/v1/rpc/" + fn)
	if err != nil {
		return fmt.Errorf("rpc %s: %w", fn, err)
	}
	if resp.IsError() {
		return remoteErr(resp)
	}
	return nil
}
