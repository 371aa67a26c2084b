package apiclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsales/backoffice/internal/shared"
)

type fakeSession struct {
	token      string
	logoutCall int
}

func (s *fakeSession) AccessToken() string { return s.token }
func (s *fakeSession) Logout() {
	s.token = ""
	s.logoutCall++
}

func newTestFactory(t *testing.T, handler http.HandlerFunc) *Factory {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	f, err := NewFactory(Options{BaseURL: srv.URL + "/api", Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	return f
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	f := newTestFactory(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[{"id":1}],"meta":{"page":2,"total":11,"total_pages":2}}`))
	})

	sess := &fakeSession{token: "abc"}
	page, err := ListPage[struct {
		ID int64 `json:"id"`
	}](context.Background(), f.For(sess), "/admin/announcements", url.Values{"page": {"2"}})
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "/api/admin/announcements", gotPath)
	assert.Equal(t, "page=2", gotQuery)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 2, page.Meta.TotalPages)
}

func TestClientForbiddenLogsOutSession(t *testing.T) {
	f := newTestFactory(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	sess := &fakeSession{token: "abc"}
	err := f.For(sess).GetJSON(context.Background(), "/shipments", nil, nil)

	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, sess.logoutCall)
	assert.Empty(t, sess.AccessToken())
	assert.Equal(t, "Your session has expired. Please sign in again.", UserMessage(err))
}

func TestClientForbiddenLogsOutSharedSession(t *testing.T) {
	f := newTestFactory(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	sess := &shared.Session{}
	sess.SignIn(shared.Identity{UserID: "3", Role: "admin"}, "tok")
	err := f.For(sess).Delete(context.Background(), "/hooks/3", nil)

	require.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, sess.SignedIn())
}

func TestClientErrorDetail(t *testing.T) {
	f := newTestFactory(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"title":["can't be blank"]}}`))
	})

	err := f.For(nil).PostJSON(context.Background(), "/admin/careers", map[string]string{}, nil)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "title: can't be blank", UserMessage(err))
}

func TestClientErrorDetailFieldOrder(t *testing.T) {
	f := newTestFactory(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"title":["can't be blank"],"body":["is too short"],"audio":["is missing"]}}`))
	})

	for range 20 {
		err := f.For(nil).PostJSON(context.Background(), "/admin/announcements", map[string]string{}, nil)
		assert.Equal(t, "audio: is missing; body: is too short; title: can't be blank", UserMessage(err))
	}
}

func TestClientGenericFallbackMessage(t *testing.T) {
	f := newTestFactory(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	err := f.For(nil).GetJSON(context.Background(), "/x", nil, nil)
	require.Error(t, err)
	assert.Equal(t, GenericMessage, UserMessage(err))
}

func TestClientNotFoundMatchesSentinel(t *testing.T) {
	f := newTestFactory(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"shipment not found"}`))
	})

	err := f.For(nil).GetJSON(context.Background(), "/shipments/9", nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "shipment not found", UserMessage(err))
}

func TestClientMultipartUpload(t *testing.T) {
	var shops, fileBody, fileName string
	f := newTestFactory(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		shops = r.FormValue("shops")
		file, header, err := r.FormFile("selfie")
		if !assert.NoError(t, err) {
			return
		}
		raw, _ := io.ReadAll(file)
		fileBody = string(raw)
		fileName = header.Filename
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": 5}})
	})

	var out Envelope[struct {
		ID int64 `json:"id"`
	}]
	err := f.For(&fakeSession{token: "t"}).PostMultipart(context.Background(), "/daily_visits", Multipart{
		Fields: url.Values{"shops": {`[{"kind":"customer"}]`}},
		Files:  []FilePart{{Field: "selfie", FileName: "me.jpg", ContentType: "image/jpeg", Content: strings.NewReader("jpeg")}},
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, `[{"kind":"customer"}]`, shops)
	assert.Equal(t, "jpeg", fileBody)
	assert.Equal(t, "me.jpg", fileName)
	assert.Equal(t, int64(5), out.Data.ID)
}

func TestDownloadBinary(t *testing.T) {
	f := newTestFactory(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="attendance.xlsx"`)
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("PK\x03\x04"))
	})

	file, err := f.For(nil).Download(context.Background(), "/admin/attendance/export", nil, "report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "attendance.xlsx", file.Name)
	assert.Equal(t, XLSXContentType, file.ContentType)
	assert.Equal(t, []byte("PK\x03\x04"), file.Data)
}

func TestDownloadBase64(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("PK-data"))
	cases := map[string]string{
		"json":     `{"file":"` + encoded + `","filename":"unbilled.xlsx"}`,
		"bare":     encoded,
		"data-uri": `"data:` + XLSXContentType + `;base64,` + encoded + `"`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			f := newTestFactory(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			file, err := f.For(nil).DownloadBase64(context.Background(), "/admin/reports/unbilled_customers/export", nil, "fallback.xlsx")
			require.NoError(t, err)
			assert.Equal(t, []byte("PK-data"), file.Data)
			if name == "json" {
				assert.Equal(t, "unbilled.xlsx", file.Name)
			} else {
				assert.Equal(t, "fallback.xlsx", file.Name)
			}
		})
	}
}

func TestPageQuerySkipsEmptyFilters(t *testing.T) {
	p := shared.NewPager(25)
	p.Page = 2
	q := PageQuery(p, url.Values{"search": {""}, "status": {"active"}})
	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "25", q.Get("limit"))
	assert.Equal(t, "active", q.Get("status"))
	assert.False(t, q.Has("search"))
}

func TestNewFactoryRejectsRelativeURL(t *testing.T) {
	_, err := NewFactory(Options{BaseURL: "/api"})
	assert.Error(t, err)
}
