// Package client talks to the tickets REST API. Every response is run
// through docshape before it is decoded, so the client accepts both the
// canonical shape ("id") and raw stored documents ("_id").
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/Alijeyrad/ticketcreator_backend/config"
	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrUnexpectedResponse = errors.New("client: unexpected response")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func NewFromConfig(cfg config.ClientConfig) *Client {
	return New(cfg.BaseURL, time.Duration(cfg.TimeoutSeconds)*time.Second)
}

// ---------------------------------------------------------------------------
// Request bodies
// ---------------------------------------------------------------------------

type ListParams struct {
	Status   string
	Priority string
	Q        string
	Project  string
	Page     int
	PageSize int
}

type ListPage struct {
	Items    []model.Ticket `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

type StepInput struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title"`
	Notes  string `json:"notes,omitempty"`
	Status string `json:"status,omitempty"`
}

type NoteInput struct {
	ID     string `json:"id,omitempty"`
	Body   string `json:"body"`
	Author string `json:"author,omitempty"`
}

type TicketInput struct {
	Project     string      `json:"project"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Status      string      `json:"status,omitempty"`
	Priority    string      `json:"priority,omitempty"`
	Assignee    string      `json:"assignee,omitempty"`
	Steps       []StepInput `json:"steps,omitempty"`
}

// TicketPatch sends only the non-nil fields.
type TicketPatch struct {
	Project     *string      `json:"project,omitempty"`
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	Status      *string      `json:"status,omitempty"`
	Priority    *string      `json:"priority,omitempty"`
	Assignee    *string      `json:"assignee,omitempty"`
	Steps       *[]StepInput `json:"steps,omitempty"`
	Notes       *[]NoteInput `json:"notes,omitempty"`
}

type StepPatch struct {
	Title  *string `json:"title,omitempty"`
	Notes  *string `json:"notes,omitempty"`
	Status *string `json:"status,omitempty"`
}

type NotePatch struct {
	Body   *string `json:"body,omitempty"`
	Author *string `json:"author,omitempty"`
}

// ---------------------------------------------------------------------------
// Endpoints
// ---------------------------------------------------------------------------

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) List(ctx context.Context, p ListParams) (*ListPage, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("status", p.Status)
	set("priority", p.Priority)
	set("q", p.Q)
	set("project", p.Project)
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}

	path := "/tickets"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page ListPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	if page.Items == nil {
		page.Items = []model.Ticket{}
	}
	return &page, nil
}

func (c *Client) Create(ctx context.Context, in TicketInput) (*model.Ticket, error) {
	return c.ticket(ctx, http.MethodPost, "/tickets", in)
}

func (c *Client) Get(ctx context.Context, id string) (*model.Ticket, error) {
	return c.ticket(ctx, http.MethodGet, ticketPath(id), nil)
}

func (c *Client) Update(ctx context.Context, id string, p TicketPatch) (*model.Ticket, error) {
	return c.ticket(ctx, http.MethodPatch, ticketPath(id), p)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodDelete, ticketPath(id), nil, &out); err != nil {
		return err
	}
	if !out.OK {
		return ErrUnexpectedResponse
	}
	return nil
}

func (c *Client) AddStep(ctx context.Context, id, title string) (*model.Ticket, error) {
	return c.ticket(ctx, http.MethodPost, ticketPath(id)+"/steps", map[string]string{"title": title})
}

func (c *Client) UpdateStep(ctx context.Context, id, stepID string, p StepPatch) (*model.Ticket, error) {
	return c.ticket(ctx, http.MethodPatch, ticketPath(id)+"/steps/"+url.PathEscape(stepID), p)
}

func (c *Client) DeleteStep(ctx context.Context, id, stepID string) (*model.Ticket, error) {
	return c.ticket(ctx, http.MethodDelete, ticketPath(id)+"/steps/"+url.PathEscape(stepID), nil)
}

func (c *Client) AddNote(ctx context.Context, id, body, author string) (*model.Ticket, error) {
	return c.ticket(ctx, http.MethodPost, ticketPath(id)+"/notes", NoteInput{Body: body, Author: author})
}

func (c *Client) UpdateNote(ctx context.Context, id, noteID string, p NotePatch) (*model.Ticket, error) {
	return c.ticket(ctx, http.MethodPatch, ticketPath(id)+"/notes/"+url.PathEscape(noteID), p)
}

func (c *Client) DeleteNote(ctx context.Context, id, noteID string) (*model.Ticket, error) {
	return c.ticket(ctx, http.MethodDelete, ticketPath(id)+"/notes/"+url.PathEscape(noteID), nil)
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

func ticketPath(id string) string {
	return "/tickets/" + url.PathEscape(id)
}

func (c *Client) ticket(ctx context.Context, method, path string, body any) (*model.Ticket, error) {
	var t model.Ticket
	if err := c.do(ctx, method, path, body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// do sends body as JSON (when non-nil) and decodes a 2xx response into out
// through the canonical tree.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return apiError(res.StatusCode, raw)
	}
	if out == nil {
		return nil
	}

	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return decode(tree, out)
}

func apiError(status int, raw []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(raw, &body) == nil {
		msg = body.Error
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}
