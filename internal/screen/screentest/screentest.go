// Package screentest wires screen handlers to an in-memory session and a fake
// upstream API for handler tests.
package screentest

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
	"github.com/fieldsales/backoffice/internal/view"
)

// Env bundles a screen.Base pointed at a fake upstream.
type Env struct {
	Base     screen.Base
	Upstream *httptest.Server
}

// New starts upstream and builds a Base that talks to it.
func New(t *testing.T, upstream http.Handler) *Env {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	templates, err := view.NewEngine()
	require.NoError(t, err)
	api, err := apiclient.NewFactory(apiclient.Options{BaseURL: srv.URL, Logger: logger})
	require.NoError(t, err)
	return &Env{
		Base:     screen.NewBase(logger, templates, shared.NewCSRFManager("test-csrf-secret"), api),
		Upstream: srv,
	}
}

// Session returns a signed-in session with role.
func Session(role string) *shared.Session {
	sess := &shared.Session{ID: "sess-1"}
	sess.SignIn(shared.Identity{UserID: "42", Name: "Test User", Role: role}, "test-token")
	return sess
}

// Serve mounts routes on a fresh router and serves req as sess.
func Serve(mount func(chi.Router), sess *shared.Session, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	mount(r)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// Get builds a GET request.
func Get(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

// PostForm builds a url-encoded POST request.
func PostForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// Upload is one file of a multipart request.
type Upload struct {
	Field       string
	FileName    string
	ContentType string
	Content     []byte
}

// PostMultipart builds a multipart POST request.
func PostMultipart(t *testing.T, target string, values url.Values, files ...Upload) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, vs := range values {
		for _, v := range vs {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	for _, f := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.FileName))
		header.Set("Content-Type", "application/octet-stream")
		if f.ContentType != "" {
			header.Set("Content-Type", f.ContentType)
		}
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.Content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// Flash pops the pending toast text, empty when there is none.
func Flash(sess *shared.Session) string {
	if msg := sess.PopFlash(); msg != nil {
		return msg.Message
	}
	return ""
}
