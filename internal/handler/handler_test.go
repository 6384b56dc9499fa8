package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"almostcircle/internal/filestore"
	"almostcircle/internal/repository/sqlite"
	"almostcircle/internal/service"
)

func newTestRouter(t *testing.T, rateLimit int) http.Handler {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	bus := service.NewEventBus()
	return NewRouter(RouterConfig{
		Shapes:    NewShapeHandler(service.NewShapeService(repo, filestore.New(t.TempDir()), bus)),
		States:    NewStateHandler(service.NewStateService(repo, bus)),
		DB:        repo,
		RateLimit: rateLimit,
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestShapeCRUD(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := do(t, h, http.MethodPost, "/api/shapes/rectangle", `{"id": 5, "width": 3, "height": 2, "x": 1}`)
	assertStatus(t, rec, http.StatusCreated)
	created := decode[ShapeResponse](t, rec)
	if created.Text != "[Rectangle] (5) 1/0 - 3/2" || created.Area != 6 {
		t.Errorf("unexpected shape %+v", created)
	}

	rec = do(t, h, http.MethodGet, "/api/shapes/Rectangle/5", "")
	assertStatus(t, rec, http.StatusOK)
	got := decode[ShapeResponse](t, rec)
	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}

	t.Run("keyword update", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/api/shapes/rectangle/5", `{"y": 4, "color": "red"}`)
		assertStatus(t, rec, http.StatusOK)
		if s := decode[ShapeResponse](t, rec); s.Text != "[Rectangle] (5) 1/4 - 3/2" {
			t.Errorf("unexpected shape %s", s.Text)
		}
	})

	t.Run("positional update", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/api/shapes/rectangle/5", `[5, 7, 7]`)
		assertStatus(t, rec, http.StatusOK)
		if s := decode[ShapeResponse](t, rec); s.Area != 49 {
			t.Errorf("expected area 49, got %d", s.Area)
		}
	})

	t.Run("invalid update", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/api/shapes/rectangle/5", `{"width": "wide"}`)
		assertStatus(t, rec, http.StatusBadRequest)
		if e := decode[ErrorResponse](t, rec); e.Details != "width must be an integer" {
			t.Errorf("unexpected details %q", e.Details)
		}
	})

	t.Run("display", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/shapes/rectangle/5/display", "")
		assertStatus(t, rec, http.StatusOK)
		want := "\n\n\n\n" + strings.Repeat(" #######\n", 7)
		if rec.Body.String() != want {
			t.Errorf("unexpected display %q", rec.Body.String())
		}
	})

	rec = do(t, h, http.MethodDelete, "/api/shapes/rectangle/5", "")
	assertStatus(t, rec, http.StatusNoContent)

	rec = do(t, h, http.MethodGet, "/api/shapes/rectangle/5", "")
	assertStatus(t, rec, http.StatusNotFound)
}

func TestShapeErrors(t *testing.T) {
	h := newTestRouter(t, 0)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"unknown kind", http.MethodGet, "/api/shapes/circle", "", http.StatusNotFound},
		{"non integer id", http.MethodGet, "/api/shapes/square/abc", "", http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/shapes/square", `{"size":`, http.StatusBadRequest},
		{"value error", http.MethodPost, "/api/shapes/square", `{"size": 0}`, http.StatusBadRequest},
		{"delete missing", http.MethodDelete, "/api/shapes/square/42", "", http.StatusNotFound},
		{"unsupported format", http.MethodGet, "/api/export/square?format=xml", "", http.StatusBadRequest},
		{"method not allowed", http.MethodPatch, "/api/shapes/square/1", "", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/api/triangles", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, tt.body)
			assertStatus(t, rec, tt.status)
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON error, got %s", ct)
			}
		})
	}

	t.Run("duplicate id", func(t *testing.T) {
		assertStatus(t, do(t, h, http.MethodPost, "/api/shapes/square", `{"id": 900, "size": 1}`), http.StatusCreated)
		assertStatus(t, do(t, h, http.MethodPost, "/api/shapes/square", `{"id": 900, "size": 2}`), http.StatusConflict)

		rec := do(t, h, http.MethodGet, "/api/shapes/square/900", "")
		assertStatus(t, rec, http.StatusOK)
		if got := decode[ShapeResponse](t, rec); got.Attributes["size"] != 1 {
			t.Errorf("expected size 1 to survive, got %v", got.Attributes)
		}
	})
}

func TestImportExport(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := do(t, h, http.MethodPost, "/api/import/square?format=csv", "1,4,0,0\n2,2,1,1\n")
	assertStatus(t, rec, http.StatusOK)
	if got := decode[map[string]any](t, rec); got["imported"] != float64(2) {
		t.Errorf("expected 2 imported, got %v", got["imported"])
	}

	rec = do(t, h, http.MethodPost, "/api/import/square?format=csv", "1,-4,0,0\n")
	assertStatus(t, rec, http.StatusBadRequest)

	rec = do(t, h, http.MethodGet, "/api/export/square", "")
	assertStatus(t, rec, http.StatusOK)
	want := `[{"id":1,"size":4,"x":0,"y":0},{"id":2,"size":2,"x":1,"y":1}]`
	if rec.Body.String() != want {
		t.Errorf("expected %s, got %s", want, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=Square.json" {
		t.Errorf("unexpected disposition %q", cd)
	}

	rec = do(t, h, http.MethodGet, "/api/export/square?format=csv", "")
	assertStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "1,4,0,0\n2,2,1,1\n" {
		t.Errorf("unexpected CSV %q", rec.Body.String())
	}
}

func TestSnapshotAndSync(t *testing.T) {
	h := newTestRouter(t, 0)

	assertStatus(t, do(t, h, http.MethodPost, "/api/shapes/square", `{"id": 3, "size": 5}`), http.StatusCreated)
	assertStatus(t, do(t, h, http.MethodPost, "/api/snapshot/square", ""), http.StatusNoContent)

	assertStatus(t, do(t, h, http.MethodDelete, "/api/shapes/square/3", ""), http.StatusNoContent)
	rec := do(t, h, http.MethodPost, "/api/sync/square", "")
	assertStatus(t, rec, http.StatusOK)
	if got := decode[map[string]any](t, rec); got["synced"] != float64(1) {
		t.Errorf("expected 1 synced, got %v", got["synced"])
	}

	assertStatus(t, do(t, h, http.MethodGet, "/api/shapes/square/3", ""), http.StatusOK)
}

func TestStates(t *testing.T) {
	h := newTestRouter(t, 0)

	assertStatus(t, do(t, h, http.MethodGet, "/api/states/first", ""), http.StatusNotFound)

	for _, body := range []string{
		`{"name": "California", "cities": ["San Francisco", "San Jose"]}`,
		`{"name": "Arizona"}`,
		`{"name": "Nevada"}`,
	} {
		assertStatus(t, do(t, h, http.MethodPost, "/api/states", body), http.StatusCreated)
	}
	assertStatus(t, do(t, h, http.MethodPost, "/api/states", `{"name": ""}`), http.StatusBadRequest)

	t.Run("list filters", func(t *testing.T) {
		tests := []struct {
			query string
			want  []string
		}{
			{"", []string{"California", "Arizona", "Nevada"}},
			{"?prefix=N", []string{"Nevada"}},
			{"?contains=a", []string{"California", "Arizona", "Nevada"}},
			{"?name=Arizona", []string{"Arizona"}},
		}
		for _, tt := range tests {
			rec := do(t, h, http.MethodGet, "/api/states"+tt.query, "")
			assertStatus(t, rec, http.StatusOK)
			var names []string
			for _, s := range decode[[]map[string]any](t, rec) {
				names = append(names, s["name"].(string))
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("%q mismatch (-want +got):\n%s", tt.query, diff)
			}
		}
	})

	t.Run("first and lookup", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/states/first", "")
		assertStatus(t, rec, http.StatusOK)
		if s := decode[map[string]any](t, rec); s["name"] != "California" {
			t.Errorf("expected California, got %v", s["name"])
		}

		rec = do(t, h, http.MethodGet, "/api/states/lookup?name=Nevada", "")
		assertStatus(t, rec, http.StatusOK)
		if s := decode[map[string]any](t, rec); s["id"] != float64(3) {
			t.Errorf("expected id 3, got %v", s["id"])
		}
		assertStatus(t, do(t, h, http.MethodGet, "/api/states/lookup?name=Texas", ""), http.StatusNotFound)
	})

	t.Run("rename", func(t *testing.T) {
		assertStatus(t, do(t, h, http.MethodPut, "/api/states/2", `{"name": "New Mexico"}`), http.StatusOK)
		assertStatus(t, do(t, h, http.MethodPut, "/api/states/99", `{"name": "Texas"}`), http.StatusNotFound)
		assertStatus(t, do(t, h, http.MethodPut, "/api/states/x", `{"name": "Texas"}`), http.StatusBadRequest)
	})

	t.Run("cities", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/cities?state=California", "")
		assertStatus(t, rec, http.StatusOK)
		if diff := cmp.Diff([]string{"San Francisco", "San Jose"}, decode[[]string](t, rec)); diff != "" {
			t.Errorf("cities mismatch (-want +got):\n%s", diff)
		}

		rec = do(t, h, http.MethodGet, "/api/cities?state=Nevada", "")
		assertStatus(t, rec, http.StatusOK)
		if rec.Body.String() != "[]\n" {
			t.Errorf("expected empty list, got %q", rec.Body.String())
		}
	})

	t.Run("delete containing", func(t *testing.T) {
		assertStatus(t, do(t, h, http.MethodDelete, "/api/states", ""), http.StatusBadRequest)

		rec := do(t, h, http.MethodDelete, "/api/states?contains=Mex", "")
		assertStatus(t, rec, http.StatusOK)
		if got := decode[map[string]int64](t, rec); got["deleted"] != 1 {
			t.Errorf("expected 1 deleted, got %d", got["deleted"])
		}
	})
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assertStatus(t, rec, http.StatusOK)
	if got := decode[map[string]string](t, rec); got["status"] != "ok" {
		t.Errorf("unexpected health %v", got)
	}

	do(t, h, http.MethodGet, "/api/shapes/square", "")
	rec = do(t, h, http.MethodGet, "/metrics", "")
	assertStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `route="/api/shapes/{kind}`) {
		t.Error("expected route pattern label in metrics output")
	}
}

func TestRequestID(t *testing.T) {
	h := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Errorf("expected request id to be echoed, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://circle.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"allowed origin", http.MethodGet, "https://circle.example", http.StatusTeapot, "https://circle.example"},
		{"preflight", http.MethodOptions, "https://circle.example", http.StatusNoContent, "https://circle.example"},
		{"other origin", http.MethodGet, "https://evil.example", http.StatusTeapot, ""},
		{"no origin", http.MethodGet, "", http.StatusTeapot, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("expected allow origin %q, got %q", tt.wantAllow, got)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestRouter(t, 2)

	for i := 0; i < 2; i++ {
		assertStatus(t, do(t, h, http.MethodGet, "/api/states", ""), http.StatusOK)
	}
	assertStatus(t, do(t, h, http.MethodGet, "/api/states", ""), http.StatusTooManyRequests)

	// Probes sit outside the limited group
	assertStatus(t, do(t, h, http.MethodGet, "/healthz", ""), http.StatusOK)
}
