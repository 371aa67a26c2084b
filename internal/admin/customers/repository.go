package customers

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

const (
	basePath     = "/admin/users"
	customerRole = "customer"
)

// Repository reads and writes customer accounts for one session.
type Repository struct {
	client *apiclient.Client
}

// NewRepository binds a repository to a session client.
func NewRepository(client *apiclient.Client) *Repository {
	return &Repository{client: client}
}

func itemPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}

// List returns one page of users restricted to the customer role.
func (r *Repository) List(ctx context.Context, query url.Values) (apiclient.Page[Customer], error) {
	query.Set("role", customerRole)
	return apiclient.ListPage[Customer](ctx, r.client, basePath, query)
}

func (r *Repository) Get(ctx context.Context, id int64) (Customer, error) {
	return apiclient.GetOne[Customer](ctx, r.client, itemPath(id))
}

func (r *Repository) Update(ctx context.Context, id int64, in CustomerInput) error {
	return r.client.PutJSON(ctx, itemPath(id), in, nil)
}

// SetStatus activates or deactivates the account.
func (r *Repository) SetStatus(ctx context.Context, id int64, status string) error {
	return r.client.PutJSON(ctx, itemPath(id), statusInput{Status: status}, nil)
}
