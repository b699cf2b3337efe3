package toolserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thenewheretics/blogtools/internal/tools"
)

// ToolStatusHeader reports whether the tool succeeded: "ok" or "error".
const ToolStatusHeader = "X-Tool-Status"

const maxParamsBytes = 1 << 20

type toolInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Parameters  []tools.Param `json:"parameters"`
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listTools returns the registry as JSON, in registration order.
func listTools(reg *tools.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := reg.List()
		out := make([]toolInfo, 0, len(list))
		for _, t := range list {
			params := t.Parameters()
			if params == nil {
				params = []tools.Param{}
			}
			out = append(out, toolInfo{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  params,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// invokeTool runs the named tool with the JSON object in the request body and
// writes its result string as text/plain. Tool failures are still 200; the
// outcome is in ToolStatusHeader.
func invokeTool(reg *tools.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		t, ok := reg.Get(name)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("unknown tool %q", name))
			return
		}

		params, err := decodeParams(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res := tools.Invoke(r.Context(), t, params)

		status := "ok"
		if !res.OK() {
			status = "error"
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set(ToolStatusHeader, status)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, res.String())
	}
}

// decodeParams reads a JSON object of parameters. An empty body means no
// parameters.
func decodeParams(body io.Reader) (tools.Params, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxParamsBytes))
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return tools.Params{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var params tools.Params
	if err := dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("invalid JSON body: parameters must be a JSON object: %v", err)
	}
	if params == nil {
		params = tools.Params{}
	}
	return params, nil
}

// writeJSON encodes v as JSON and writes it to the response with the given
// HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response with the given HTTP status code.
// The response body is {"error": "message"}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
