package http

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	jsoniter "github.com/json-iterator/go"

	"github.com/Alijeyrad/ticketcreator_backend/config"
	"github.com/Alijeyrad/ticketcreator_backend/internal/api/http/router"
	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
	"github.com/Alijeyrad/ticketcreator_backend/internal/service/ticket"
	"github.com/Alijeyrad/ticketcreator_backend/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = 5000
	cfg.Server.BodyLimitBytes = 1 << 20
	cfg.Server.CORS.Enabled = true
	cfg.Server.CORS.AllowOrigins = []string{"http://localhost:5173"}
	cfg.Store.Driver = config.StoreDriverMemory
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()
	st := store.NewMemory()
	svc := ticket.New(st, nil)
	r := router.NewRouter(router.Params{Cfg: cfg, Store: st, TicketSvc: svc})
	return NewApp(cfg, nil, r, false)
}

type result struct {
	status int
	body   []byte
}

func do(t *testing.T, app *fiber.App, method, path, body string) result {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	b, _ := io.ReadAll(resp.Body)
	return result{status: resp.StatusCode, body: b}
}

func (r result) ticket(t *testing.T) model.Ticket {
	t.Helper()
	var tk model.Ticket
	if err := json.Unmarshal(r.body, &tk); err != nil {
		t.Fatalf("decode ticket from %s: %v", r.body, err)
	}
	return tk
}

func (r result) errorMessage(t *testing.T) string {
	t.Helper()
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(r.body, &e); err != nil {
		t.Fatalf("decode error from %s: %v", r.body, err)
	}
	return e.Error
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, testConfig())
	res := do(t, app, fiber.MethodGet, "/health", "")
	if res.status != fiber.StatusOK || string(res.body) != `{"ok":true}` {
		t.Fatalf("GET /health = %d %s", res.status, res.body)
	}
	if res := do(t, app, fiber.MethodGet, "/readyz", ""); res.status != fiber.StatusOK {
		t.Errorf("GET /readyz = %d", res.status)
	}
}

func TestTicketLifecycle(t *testing.T) {
	app := newTestApp(t, testConfig())

	res := do(t, app, fiber.MethodPost, "/tickets", `{"project":"Acme","title":"Bug X"}`)
	if res.status != fiber.StatusCreated {
		t.Fatalf("create = %d %s", res.status, res.body)
	}
	created := res.ticket(t)
	if created.Status != model.StatusOpen || created.Priority != model.PriorityMed || len(created.Steps) != 3 {
		t.Fatalf("created = %+v", created)
	}
	if strings.Contains(string(res.body), "_id") {
		t.Errorf("response leaks internal id: %s", res.body)
	}
	path := "/tickets/" + created.ID

	res = do(t, app, fiber.MethodGet, "/tickets", "")
	var page struct {
		Items    []model.Ticket `json:"items"`
		Total    int64          `json:"total"`
		Page     int            `json:"page"`
		PageSize int            `json:"pageSize"`
	}
	if err := json.Unmarshal(res.body, &page); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if page.Total != 1 || page.Page != 1 || page.PageSize != 50 || page.Items[0].ID != created.ID {
		t.Fatalf("list = %+v", page)
	}

	res = do(t, app, fiber.MethodPatch, path, `{"status":"in_progress","unknown":1,"id":"nope"}`)
	if got := res.ticket(t); res.status != fiber.StatusOK || got.Status != model.StatusInProgress || got.Title != "Bug X" || got.ID != created.ID {
		t.Fatalf("patch = %d %s", res.status, res.body)
	}

	res = do(t, app, fiber.MethodPost, path+"/notes", `{"body":" fixed "}`)
	if res.status != fiber.StatusCreated {
		t.Fatalf("add note = %d %s", res.status, res.body)
	}
	notes := res.ticket(t).Notes
	if len(notes) != 1 || notes[0].Body != "fixed" {
		t.Fatalf("notes = %+v", notes)
	}

	res = do(t, app, fiber.MethodPatch, path+"/notes/"+notes[0].ID, `{"body":42,"author":"kim"}`)
	if got := res.ticket(t).Notes[0]; got.Body != "fixed" || got.Author != "kim" {
		t.Fatalf("update note = %+v", got)
	}

	res = do(t, app, fiber.MethodDelete, path+"/notes/"+notes[0].ID, "")
	if got := res.ticket(t); res.status != fiber.StatusOK || len(got.Notes) != 0 {
		t.Fatalf("delete note = %d %s", res.status, res.body)
	}

	res = do(t, app, fiber.MethodPost, path+"/steps", `{"title":"Ship"}`)
	steps := res.ticket(t).Steps
	if res.status != fiber.StatusCreated || len(steps) != 4 || steps[3].Status != model.StepTodo {
		t.Fatalf("add step = %d %s", res.status, res.body)
	}

	res = do(t, app, fiber.MethodPatch, path+"/steps/"+steps[3].ID, `{"status":"done","notes":"ok"}`)
	if got := res.ticket(t).Steps[3]; got.Status != model.StepDone || got.Notes != "ok" || got.Title != "Ship" {
		t.Fatalf("update step = %+v", got)
	}

	res = do(t, app, fiber.MethodDelete, path+"/steps/"+steps[0].ID, "")
	if got := res.ticket(t).Steps; len(got) != 3 || got[0].Title != "Reproduce" {
		t.Fatalf("delete step = %+v", got)
	}

	res = do(t, app, fiber.MethodDelete, path, "")
	if res.status != fiber.StatusOK || string(res.body) != `{"ok":true}` {
		t.Fatalf("delete = %d %s", res.status, res.body)
	}

	res = do(t, app, fiber.MethodGet, path, "")
	if res.status != fiber.StatusNotFound || res.errorMessage(t) != "Not found" {
		t.Fatalf("get after delete = %d %s", res.status, res.body)
	}
}

func TestErrors(t *testing.T) {
	app := newTestApp(t, testConfig())
	res := do(t, app, fiber.MethodPost, "/tickets", `{"project":"Acme","title":"Bug"}`)
	tk := res.ticket(t)
	path := "/tickets/" + tk.ID
	missing := "/tickets/" + model.NewID()

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{"blank title", fiber.MethodPost, "/tickets", `{"project":"Acme","title":"   "}`, 400, "title is required"},
		{"missing project", fiber.MethodPost, "/tickets", `{"title":"x"}`, 400, "project is required"},
		{"bad priority", fiber.MethodPost, "/tickets", `{"project":"a","title":"x","priority":"urgent"}`, 400, ""},
		{"malformed json", fiber.MethodPost, "/tickets", `{"project":`, 400, "invalid request body"},
		{"wrong type in patch", fiber.MethodPatch, path, `{"title":7}`, 400, "invalid request body"},
		{"bad status in patch", fiber.MethodPatch, path, `{"status":"closed"}`, 400, ""},
		{"bad list filter", fiber.MethodGet, "/tickets?status=closed", "", 400, ""},
		{"empty note", fiber.MethodPost, path + "/notes", `{"body":""}`, 400, "note body is required"},
		{"empty step title", fiber.MethodPost, path + "/steps", `{"title":" "}`, 400, "title is required"},
		{"unknown ticket", fiber.MethodGet, missing, "", 404, "Not found"},
		{"garbage id", fiber.MethodGet, "/tickets/not-an-id", "", 404, "Not found"},
		{"unknown ticket patch", fiber.MethodPatch, missing, `{"title":"x"}`, 404, "Not found"},
		{"unknown ticket delete", fiber.MethodDelete, missing, "", 404, "Not found"},
		{"note on unknown ticket", fiber.MethodPost, missing + "/notes", `{"body":"x"}`, 404, "Not found"},
		{"unknown step", fiber.MethodPatch, path + "/steps/" + model.NewID(), `{"title":"x"}`, 404, "Step not found"},
		{"unknown step delete", fiber.MethodDelete, path + "/steps/" + model.NewID(), "", 404, "Step not found"},
		{"unknown note", fiber.MethodPatch, path + "/notes/" + model.NewID(), `{"body":"x"}`, 404, "Note not found"},
		{"unknown note delete", fiber.MethodDelete, path + "/notes/" + model.NewID(), "", 404, "Note not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, app, tt.method, tt.path, tt.body)
			if res.status != tt.status {
				t.Fatalf("status = %d, want %d (%s)", res.status, tt.status, res.body)
			}
			msg := res.errorMessage(t)
			if tt.message != "" && msg != tt.message {
				t.Errorf("error = %q, want %q", msg, tt.message)
			}
			if msg == "" {
				t.Error("error message is empty")
			}
		})
	}

	// nothing above may have changed the ticket
	if got := do(t, app, fiber.MethodGet, path, "").ticket(t); !got.UpdatedAt.Equal(tk.UpdatedAt) || len(got.Notes) != 0 || len(got.Steps) != 3 {
		t.Errorf("ticket changed by failed requests: %+v", got)
	}
}

func TestListPagination(t *testing.T) {
	app := newTestApp(t, testConfig())
	for _, title := range []string{"first", "second", "third"} {
		do(t, app, fiber.MethodPost, "/tickets", `{"project":"p","title":"`+title+`"}`)
	}

	res := do(t, app, fiber.MethodGet, "/tickets?page=2&pageSize=1", "")
	var page struct {
		Items []model.Ticket `json:"items"`
		Total int64          `json:"total"`
	}
	if err := json.Unmarshal(res.body, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 1 {
		t.Fatalf("page = %+v", page)
	}

	res = do(t, app, fiber.MethodGet, "/tickets?q=THIR", "")
	if err := json.Unmarshal(res.body, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 1 || page.Items[0].Title != "third" {
		t.Fatalf("title search = %+v", page)
	}

	windows := []struct {
		query     string
		wantItems int
		wantPage  int
		wantSize  int
	}{
		{"page=abc&pageSize=x", 3, 1, 50},
		{"page=9223372036854775807&pageSize=500", 0, 9223372036854775807, 500},
		{"page=3&pageSize=1", 1, 3, 1},
	}
	for _, tc := range windows {
		res := do(t, app, fiber.MethodGet, "/tickets?"+tc.query, "")
		if res.status != fiber.StatusOK {
			t.Fatalf("GET /tickets?%s status = %d", tc.query, res.status)
		}
		var got struct {
			Items    []model.Ticket `json:"items"`
			Total    int64          `json:"total"`
			Page     int            `json:"page"`
			PageSize int            `json:"pageSize"`
		}
		if err := json.Unmarshal(res.body, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got.Items) != tc.wantItems || got.Total != 3 || got.Page != tc.wantPage || got.PageSize != tc.wantSize {
			t.Errorf("GET /tickets?%s = items %d total %d page %d/%d", tc.query, len(got.Items), got.Total, got.Page, got.PageSize)
		}
	}
}

func TestOriginPolicy(t *testing.T) {
	app := newTestApp(t, testConfig())

	req := httptest.NewRequest(fiber.MethodGet, "/tickets", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://evil.test")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("foreign origin status = %d", resp.StatusCode)
	}

	req = httptest.NewRequest(fiber.MethodGet, "/tickets", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:5173")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("allowed origin status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowOrigin); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit.RequestsPerMinute = 2
	app := newTestApp(t, cfg)

	for i := range 2 {
		if res := do(t, app, fiber.MethodGet, "/health", ""); res.status != fiber.StatusOK {
			t.Fatalf("request %d = %d", i, res.status)
		}
	}
	if res := do(t, app, fiber.MethodGet, "/health", ""); res.status != fiber.StatusTooManyRequests {
		t.Fatalf("over budget = %d", res.status)
	}
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t, testConfig())
	res := do(t, app, fiber.MethodGet, "/nope", "")
	if res.status != fiber.StatusNotFound || res.errorMessage(t) == "" {
		t.Fatalf("GET /nope = %d %s", res.status, res.body)
	}
}
