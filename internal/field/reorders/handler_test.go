package reorders

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsales/backoffice/internal/picker"
	pickerhttp "github.com/fieldsales/backoffice/internal/picker/http"
	"github.com/fieldsales/backoffice/internal/screen/screentest"
	"github.com/fieldsales/backoffice/internal/shared"
)

type harness struct {
	api     *screentest.FakeAPI
	sess    *shared.Session
	pickers *pickerhttp.Handler
	mount   func(chi.Router)
}

func newHarness(t *testing.T, api *screentest.FakeAPI) *harness {
	t.Helper()
	env := screentest.New(t, api)
	pickers := pickerhttp.NewHandler(env.Base, picker.NewRegistry(picker.Options{Debounce: time.Millisecond}, time.Hour))
	h := NewHandler(env.Base, pickers)
	h.now = func() time.Time { return time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC) }
	return &harness{
		api:     api,
		sess:    screentest.Session("sales"),
		pickers: pickers,
		mount: func(r chi.Router) {
			r.Route(listPath, h.MountRoutes)
			r.Route("/pickers", pickers.MountRoutes)
		},
	}
}

func (hs *harness) do(req *http.Request) *httptest.ResponseRecorder {
	return screentest.Serve(hs.mount, hs.sess, req)
}

func (hs *harness) selectCustomer(t *testing.T) {
	t.Helper()
	res := hs.do(screentest.Get("/pickers/customers?name=reorder&q=bima"))
	require.Equal(t, http.StatusOK, res.Code)
	res = hs.do(screentest.PostForm(pickerhttp.SelectPath+"?return="+listPath+"/new", url.Values{"picker": {pickerName}, "customer_id": {"4"}}))
	require.Equal(t, listPath+"/new", res.Header().Get("Location"))
	screentest.Flash(hs.sess)
}

func customerAPI() *screentest.FakeAPI {
	return screentest.NewFakeAPI().
		On(http.MethodGet, "/customers", http.StatusOK, `{"data":[{"id":4,"name":"Toko Bima"}],"meta":{"total":1,"total_pages":1}}`).
		On(http.MethodGet, "/customers/4/addresses", http.StatusOK, `{"data":[{"address_id":10,"address":"Jl. Mawar 1"}]}`)
}

func validForm(customerID string) url.Values {
	return url.Values{
		"customer_id":   {customerID},
		"product_name":  {"Teh Botol 350ml"},
		"quantity":      {"24"},
		"expected_date": {"2026-10-20"},
	}
}

func TestListShowsReorders(t *testing.T) {
	api := screentest.NewFakeAPI().On(http.MethodGet, "/expected_reorders", http.StatusOK,
		`{"data":[{"id":3,"customer_name":"Toko Bima","product_name":"Teh Botol","quantity":24,"expected_date":"2026-10-20"}],"meta":{"total":1,"total_pages":1}}`)
	hs := newHarness(t, api)

	res := hs.do(screentest.Get(listPath + "?page=0&rows=25"))

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Toko Bima")
	assert.Contains(t, res.Body.String(), listPath+"/3/edit")
	calls := api.CallsTo(http.MethodGet, "/expected_reorders")
	require.Len(t, calls, 1)
	assert.Equal(t, "1", calls[0].Query.Get("page"))
	assert.Equal(t, "25", calls[0].Query.Get("limit"))
}

func TestPastExpectedDateIsRejected(t *testing.T) {
	hs := newHarness(t, customerAPI())
	form := validForm("4")
	form.Set("expected_date", "2026-10-16")

	res := hs.do(screentest.PostForm(listPath, form))

	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Contains(t, res.Body.String(), ErrDateInPast.Error())
	assert.Empty(t, hs.api.CallsTo(http.MethodPost, "/expected_reorders"))
}

func TestTodayIsAcceptedAsExpectedDate(t *testing.T) {
	in := ReorderInput{ExpectedDate: "2026-10-17"}
	assert.NoError(t, in.CheckDate(time.Date(2026, 10, 17, 23, 59, 0, 0, time.UTC)))
}

func TestZeroQuantityAndMissingCustomerAreRejected(t *testing.T) {
	hs := newHarness(t, customerAPI())
	form := validForm("")
	form.Set("quantity", "0")

	res := hs.do(screentest.PostForm(listPath, form))

	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Contains(t, res.Body.String(), "Select a customer first.")
	assert.Empty(t, hs.api.Calls())
}

func TestCreateUsesPickedCustomerAndResetsPicker(t *testing.T) {
	hs := newHarness(t, customerAPI())
	hs.selectCustomer(t)

	page := hs.do(screentest.Get(listPath + "/new"))
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Customer: Toko Bima")
	assert.Contains(t, page.Body.String(), `value="4"`)

	res := hs.do(screentest.PostForm(listPath, validForm("4")))

	require.Equal(t, listPath, res.Header().Get("Location"))
	assert.Equal(t, "Reorder recorded.", screentest.Flash(hs.sess))
	posts := hs.api.CallsTo(http.MethodPost, "/expected_reorders")
	require.Len(t, posts, 1)
	assert.Equal(t, float64(4), posts[0].JSON["customer_id"])
	assert.Equal(t, float64(24), posts[0].JSON["quantity"])
	assert.Equal(t, "2026-10-20", posts[0].JSON["expected_date"])

	req := screentest.Get(listPath + "/new")
	sel := hs.pickers.Picker(req.WithContext(shared.ContextWithSession(req.Context(), hs.sess)), pickerName).Selection()
	assert.Nil(t, sel.Customer)
}

func TestUpdateFailureGoesBackToEdit(t *testing.T) {
	api := screentest.NewFakeAPI().On(http.MethodPut, "/expected_reorders/3", http.StatusBadRequest, `{"message":"reorder already fulfilled"}`)
	hs := newHarness(t, api)

	res := hs.do(screentest.PostForm(listPath+"/3/edit", validForm("4")))

	assert.Equal(t, listPath+"/3/edit", res.Header().Get("Location"))
	assert.Equal(t, "reorder already fulfilled", screentest.Flash(hs.sess))
}

func TestEditKeepsStoredCustomer(t *testing.T) {
	api := screentest.NewFakeAPI().On(http.MethodGet, "/expected_reorders/3", http.StatusOK,
		`{"data":{"id":3,"customer_id":9,"customer_name":"Toko Sari","product_name":"Kopi","quantity":5,"expected_date":"2026-11-01"}}`)
	hs := newHarness(t, api)

	res := hs.do(screentest.Get(listPath + "/3/edit"))

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Customer: Toko Sari")
	assert.Contains(t, res.Body.String(), `value="9"`)
}
