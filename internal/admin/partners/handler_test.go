package partners

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsales/backoffice/internal/screen/screentest"
)

func setup(t *testing.T, api *screentest.FakeAPI) func(chi.Router) {
	t.Helper()
	env := screentest.New(t, api)
	h := NewHandler(env.Base)
	return func(r chi.Router) { r.Route(listPath, h.MountRoutes) }
}

func TestListRendersPartners(t *testing.T) {
	api := screentest.NewFakeAPI().On(http.MethodGet, "/admin/delivery_partners", http.StatusOK,
		`{"data":[{"id":1,"name":"Budi","phone":"0813","vehicle_type":"van","plate_number":"B 1234 XY","is_active":true}],"meta":{"total":1,"total_pages":1}}`)
	mount := setup(t, api)

	rr := screentest.Serve(mount, screentest.Session("admin"), screentest.Get(listPath))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "B 1234 XY")
	assert.Contains(t, rr.Body.String(), "/admin/partners/1/edit")
}

func TestCreateRejectsUnknownVehicle(t *testing.T) {
	api := screentest.NewFakeAPI()
	mount := setup(t, api)

	rr := screentest.Serve(mount, screentest.Session("admin"), screentest.PostForm(listPath, url.Values{"name": {"Budi"}, "phone": {"1"}, "vehicle_type": {"boat"}}))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "vehicle type must be one of")
	assert.Empty(t, api.Calls())
}

func TestCreateAndUpdate(t *testing.T) {
	api := screentest.NewFakeAPI()
	mount := setup(t, api)
	form := url.Values{"name": {"Budi"}, "phone": {"0813"}, "vehicle_type": {"car"}, "is_active": {"true"}}

	rr := screentest.Serve(mount, screentest.Session("admin"), screentest.PostForm(listPath, form))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	rr = screentest.Serve(mount, screentest.Session("admin"), screentest.PostForm(listPath+"/1/edit", form))
	require.Equal(t, http.StatusSeeOther, rr.Code)

	posts := api.CallsTo(http.MethodPost, "/admin/delivery_partners")
	puts := api.CallsTo(http.MethodPut, "/admin/delivery_partners/1")
	require.Len(t, posts, 1)
	require.Len(t, puts, 1)
	assert.Equal(t, "car", posts[0].JSON["vehicle_type"])
	assert.Equal(t, "Budi", puts[0].JSON["name"])
}
