package message

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	model "github.com/zhouzirui/hello-fullstack/backend/internal/model/message"
	messageService "github.com/zhouzirui/hello-fullstack/backend/internal/service/message"
)

type fakeStore struct {
	initErr error
	getErr  error
	setErr  error
	sets    int
	inner   *model.MemoryStore
}

func newFakeStore() *fakeStore {
	return &fakeStore{inner: model.NewMemoryStore()}
}

func (f *fakeStore) Initialize(ctx context.Context) error {
	if f.initErr != nil {
		return f.initErr
	}
	return f.inner.Initialize(ctx)
}

func (f *fakeStore) GetCurrent(ctx context.Context) (model.Message, error) {
	if f.getErr != nil {
		return model.Message{}, f.getErr
	}
	return f.inner.GetCurrent(ctx)
}

func (f *fakeStore) SetCurrent(ctx context.Context, content, expectedVersion string) (model.Message, error) {
	if f.setErr != nil {
		return model.Message{}, f.setErr
	}
	f.sets++
	return f.inner.SetCurrent(ctx, content, expectedVersion)
}

func (f *fakeStore) Close() error { return nil }

func setupRouter(store model.Store) *chi.Mux {
	handler := New(messageService.NewService(store, nil), "*")

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	handler.RegisterStreamRoutes(r)
	return r
}

func doRequest(r http.Handler, method, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", resp.Body.String(), err)
	}
	return body
}

func TestGetMessageFreshStore(t *testing.T) {
	r := setupRouter(model.NewMemoryStore())

	resp := doRequest(r, http.MethodGet, "", nil)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := strings.TrimSpace(resp.Body.String()); got != `{"message":"Hello Full Stack World!"}` {
		t.Fatalf("unexpected body %s", got)
	}
	if resp.Header().Get("ETag") == "" {
		t.Fatal("expected ETag header")
	}
}

func TestUpdateThenGet(t *testing.T) {
	r := setupRouter(model.NewMemoryStore())

	resp := doRequest(r, http.MethodPost, `{"newMessage":"Hi there"}`, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	want := `{"status":"success","message":"Message updated successfully","updatedMessage":"Hi there"}`
	if got := strings.TrimSpace(resp.Body.String()); got != want {
		t.Fatalf("unexpected body %s", got)
	}

	resp = doRequest(r, http.MethodGet, "", nil)
	if got := decodeBody(t, resp)["message"]; got != "Hi there" {
		t.Fatalf("expected Hi there, got %q", got)
	}
}

func TestUpdateTrimsContent(t *testing.T) {
	r := setupRouter(model.NewMemoryStore())

	resp := doRequest(r, http.MethodPost, `{"newMessage":"  padded  "}`, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decodeBody(t, resp)["updatedMessage"]; got != "padded" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestUpdateSequentialLastWriteWins(t *testing.T) {
	r := setupRouter(model.NewMemoryStore())

	for _, content := range []string{"A", "B"} {
		payload, _ := json.Marshal(map[string]string{"newMessage": content})
		if resp := doRequest(r, http.MethodPost, string(payload), nil); resp.Code != http.StatusOK {
			t.Fatalf("POST %s: expected 200, got %d", content, resp.Code)
		}
	}

	resp := doRequest(r, http.MethodGet, "", nil)
	if got := decodeBody(t, resp)["message"]; got != "B" {
		t.Fatalf("expected B, got %q", got)
	}
}

func TestUpdateValidation(t *testing.T) {
	cases := map[string]string{
		"empty":      `{"newMessage":""}`,
		"blank":      `{"newMessage":"   "}`,
		"null":       `{"newMessage":null}`,
		"number":     `{"newMessage":42}`,
		"object":     `{"newMessage":{"text":"hi"}}`,
		"missing":    `{}`,
		"not json":   `newMessage=hi`,
		"array body": `["hi"]`,
		"no body":    ``,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			store := newFakeStore()
			r := setupRouter(store)

			resp := doRequest(r, http.MethodPost, body, nil)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
			got := decodeBody(t, resp)
			if got["error"] != "Bad Request" || got["details"] == "" {
				t.Fatalf("unexpected body %v", got)
			}
			if store.sets != 0 {
				t.Fatalf("store must not be written, got %d writes", store.sets)
			}

			current := decodeBody(t, doRequest(r, http.MethodGet, "", nil))
			if current["message"] != model.DefaultContent {
				t.Fatalf("message changed to %q", current["message"])
			}
		})
	}
}

func TestGetMessageMissingRow(t *testing.T) {
	store := newFakeStore()
	store.getErr = model.ErrNotFound
	r := setupRouter(store)

	resp := doRequest(r, http.MethodGet, "", nil)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["error"] == "" || body["details"] == "" {
		t.Fatalf("expected error and details, got %v", body)
	}
}

func TestStorageFailuresMapTo500(t *testing.T) {
	failure := model.Unavailable("open database", errors.New("unable to open database file"))

	cases := []struct {
		name   string
		method string
		body   string
		setup  func(*fakeStore)
	}{
		{"get init", http.MethodGet, "", func(f *fakeStore) { f.initErr = failure }},
		{"get read", http.MethodGet, "", func(f *fakeStore) { f.getErr = failure }},
		{"post init", http.MethodPost, `{"newMessage":"A"}`, func(f *fakeStore) { f.initErr = failure }},
		{"post write", http.MethodPost, `{"newMessage":"A"}`, func(f *fakeStore) { f.setErr = failure }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			tc.setup(store)
			r := setupRouter(store)

			resp := doRequest(r, tc.method, tc.body, nil)
			if resp.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", resp.Code)
			}
			body := decodeBody(t, resp)
			if body["error"] == "" {
				t.Fatal("expected error field")
			}
			if !strings.Contains(body["details"], "unable to open database file") {
				t.Fatalf("expected underlying failure in details, got %q", body["details"])
			}
		})
	}
}

func TestUpdateIfMatch(t *testing.T) {
	r := setupRouter(model.NewMemoryStore())

	etag := doRequest(r, http.MethodGet, "", nil).Header().Get("ETag")

	resp := doRequest(r, http.MethodPost, `{"newMessage":"stale"}`, map[string]string{"If-Match": `"not-current"`})
	if resp.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d", resp.Code)
	}

	resp = doRequest(r, http.MethodPost, `{"newMessage":"fresh"}`, map[string]string{"If-Match": etag})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("ETag") == etag {
		t.Fatal("expected a new ETag after update")
	}

	resp = doRequest(r, http.MethodPost, `{"newMessage":"any"}`, map[string]string{"If-Match": "*"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for wildcard, got %d", resp.Code)
	}
}

func TestParseIfMatch(t *testing.T) {
	cases := [][2]string{
		{"", ""},
		{"*", ""},
		{`"abc"`, "abc"},
		{`W/"abc"`, "abc"},
		{` "abc" `, "abc"},
	}
	for _, tc := range cases {
		if got := parseIfMatch(tc[0]); got != tc[1] {
			t.Fatalf("parseIfMatch(%q) = %q, want %q", tc[0], got, tc[1])
		}
	}
}

func TestCheckOrigin(t *testing.T) {
	h := New(nil, "https://app.example.com")

	req := httptest.NewRequest(http.MethodGet, "/message/ws", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	if h.checkOrigin(req) {
		t.Fatal("expected foreign origin to be rejected")
	}

	req.Header.Set("Origin", "https://app.example.com")
	if !h.checkOrigin(req) {
		t.Fatal("expected configured origin to be accepted")
	}
}
