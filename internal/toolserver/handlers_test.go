package toolserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/thenewheretics/blogtools/internal/blogapi"
	"github.com/thenewheretics/blogtools/internal/blogtest"
	"github.com/thenewheretics/blogtools/internal/tools"
)

type staticForecaster string

func (s staticForecaster) Forecast(context.Context, float64, float64) (string, error) {
	return string(s), nil
}

// newTestRouter wires the default registry to a sandbox blog server.
func newTestRouter(t *testing.T) (http.Handler, *blogtest.Server) {
	t.Helper()
	blog := blogtest.NewServer(t, blogtest.WithAPIKey("k"))
	client := blogapi.NewClient(blog.URL, blogapi.WithAPIKey("k"))
	reg := tools.Default(client, staticForecaster(`{"current_weather":{}}`), 52.52, 13.41)
	return NewRouter(reg), blog
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestListTools(t *testing.T) {
	h, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tools", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}

	var got []toolInfo
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("got %d tools, want 10", len(got))
	}
	if got[0].Name != "create_post" || len(got[0].Parameters) == 0 || !got[0].Parameters[0].Required {
		t.Errorf("first tool = %+v", got[0])
	}
}

func TestInvokeTool_Success(t *testing.T) {
	h, _ := newTestRouter(t)

	w := post(t, h, "/tools/create_post", `{"title":"Hello World","content":"Body","tags":["a","b"]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get(ToolStatusHeader); got != "ok" {
		t.Errorf("%s = %q, want ok", ToolStatusHeader, got)
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("Content-Type = %q", got)
	}
	if !strings.HasPrefix(w.Body.String(), `Success: Blog post "Hello World" has been created`) {
		t.Errorf("body = %q", w.Body.String())
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestInvokeTool_NumericParam(t *testing.T) {
	h, _ := newTestRouter(t)
	post(t, h, "/tools/create_post", `{"title":"Doomed","content":"x"}`)

	w := post(t, h, "/tools/delete_post", `{"postId": 1}`)
	if got := w.Body.String(); !strings.HasPrefix(got, "Success: Post deleted successfully") {
		t.Errorf("body = %q", got)
	}
}

func TestInvokeTool_ToolError(t *testing.T) {
	h, blog := newTestRouter(t)

	w := post(t, h, "/tools/create_post", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get(ToolStatusHeader); got != "error" {
		t.Errorf("%s = %q, want error", ToolStatusHeader, got)
	}
	want := "Error: title is required. Please provide a title for the blog post."
	if w.Body.String() != want {
		t.Errorf("body = %q, want %q", w.Body.String(), want)
	}
	if blog.Requests() != 0 {
		t.Errorf("blog server got %d requests, want 0", blog.Requests())
	}
}

func TestInvokeTool_BadRequests(t *testing.T) {
	h, _ := newTestRouter(t)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{name: "unknown tool", path: "/tools/nope", body: "{}", wantStatus: http.StatusNotFound},
		{name: "malformed JSON", path: "/tools/list_posts", body: "{", wantStatus: http.StatusBadRequest},
		{name: "array body", path: "/tools/list_posts", body: "[1,2]", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, tt.path, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", w.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil || body["error"] == "" {
				t.Errorf("want JSON error body, got err=%v body=%v", err, body)
			}
		})
	}
}

func TestInvokeTool_Weather(t *testing.T) {
	h, _ := newTestRouter(t)

	w := post(t, h, "/tools/weather_forecast", "null")
	if w.Body.String() != `{"current_weather":{}}` {
		t.Errorf("body = %q", w.Body.String())
	}
}
