// Package home renders the signed-in dashboard.
package home

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/rbac"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
)

// Counter is one dashboard tile backed by an upstream collection total.
type Counter struct {
	Label string
	Link  string
	Path  string
	Query url.Values
	Roles []string
}

// Counters lists every tile. A tile shows only to the roles it names.
var Counters = []Counter{
	{Label: "Active customers", Link: "/admin/customers?status=active", Path: "/admin/users", Query: url.Values{"role": {"customer"}, "status": {"active"}}, Roles: []string{rbac.RoleAdmin}},
	{Label: "Returns awaiting pickup", Link: "/admin/returns?status=draft", Path: "/admin/return_orders", Query: url.Values{"status": {"draft"}}, Roles: []string{rbac.RoleAdmin}},
	{Label: "Shipments in transit", Link: "/admin/shipments?status=in_transit", Path: "/shipments", Query: url.Values{"status": {"in_transit"}}, Roles: []string{rbac.RoleAdmin}},
	{Label: "Delivery partners", Link: "/admin/partners", Path: "/admin/delivery_partners", Roles: []string{rbac.RoleAdmin}},
	{Label: "Daily visits", Link: "/visits", Path: "/daily_visits"},
	{Label: "Expected reorders", Link: "/reorders", Path: "/expected_reorders"},
	{Label: "Hook records", Link: "/hooks", Path: "/hooks"},
}

// Tile is the template model of one counter.
type Tile struct {
	Label  string
	Link   string
	Count  int
	Failed bool
}

type page struct {
	Tiles []Tile
}

// Handler serves the dashboard.
type Handler struct {
	screen.Base
	counters []Counter
}

func NewHandler(base screen.Base) *Handler {
	return &Handler{Base: base, counters: Counters}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	role := shared.RequestSession(r).Identity().Role
	var visible []Counter
	for _, c := range h.counters {
		if rbac.Allowed(role, c.Roles...) {
			visible = append(visible, c)
		}
	}
	tiles, err := h.load(r.Context(), h.Client(r), visible)
	if h.Expired(w, r, err) {
		return
	}
	h.Render(w, r, http.StatusOK, "pages/home.html", "Dashboard", page{Tiles: tiles})
}

// load fetches every counter concurrently. A failed counter marks only its
// own tile; an expired session aborts the whole dashboard.
func (h *Handler) load(ctx context.Context, client *apiclient.Client, counters []Counter) ([]Tile, error) {
	tiles := make([]Tile, len(counters))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range counters {
		tiles[i] = Tile{Label: c.Label, Link: c.Link}
		g.Go(func() error {
			q := url.Values{"page": {"1"}, "limit": {"1"}}
			for k, v := range c.Query {
				q[k] = v
			}
			p, err := apiclient.ListPage[json.RawMessage](ctx, client, c.Path, q)
			if err != nil {
				if errors.Is(err, apiclient.ErrSessionExpired) {
					return err
				}
				h.Logger.Warn("dashboard counter", slog.String("counter", c.Label), slog.Any("error", err))
				tiles[i].Failed = true
				return nil
			}
			tiles[i].Count = p.Meta.Total
			return nil
		})
	}
	err := g.Wait()
	return tiles, err
}
