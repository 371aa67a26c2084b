package screentest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Call is one request received by FakeAPI.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	JSON   map[string]any
	Fields url.Values
	// Files maps a multipart field to the content types of its parts.
	Files map[string][]string
}

type response struct {
	status int
	body   string
}

// FakeAPI is a scripted upstream. Unscripted requests answer 200 with {}.
type FakeAPI struct {
	mu     sync.Mutex
	calls  []Call
	routes map[string]response
	all    *response
}

// NewFakeAPI returns an empty FakeAPI.
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{routes: make(map[string]response)}
}

// On scripts the answer for method and path.
func (f *FakeAPI) On(method, path string, status int, body string) *FakeAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = response{status: status, body: body}
	return f
}

// FailAll makes every request answer status with body.
func (f *FakeAPI) FailAll(status int, body string) *FakeAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.all = &response{status: status, body: body}
	return f
}

// Calls returns the requests received so far.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo filters Calls by method and path.
func (f *FakeAPI) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	call := Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()}
	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "application/json"):
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &call.JSON)
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(8 << 20); err == nil {
			call.Fields = url.Values(r.MultipartForm.Value)
			call.Files = make(map[string][]string)
			for field, headers := range r.MultipartForm.File {
				for _, fh := range headers {
					call.Files[field] = append(call.Files[field], fh.Header.Get("Content-Type"))
				}
			}
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	resp, ok := f.routes[r.Method+" "+r.URL.Path]
	if f.all != nil {
		resp, ok = *f.all, true
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		_, _ = w.Write([]byte(`{}`))
		return
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}
