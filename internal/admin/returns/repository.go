package returns

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

const basePath = "/admin/return_orders"

// Repository talks to the return order endpoints.
type Repository struct {
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client) *Repository {
	return &Repository{client: client}
}

func itemPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}

func (r *Repository) List(ctx context.Context, query url.Values) (apiclient.Page[ReturnOrder], error) {
	return apiclient.ListPage[ReturnOrder](ctx, r.client, basePath, query)
}

func (r *Repository) Get(ctx context.Context, id int64) (ReturnOrder, error) {
	return apiclient.GetOne[ReturnOrder](ctx, r.client, itemPath(id))
}

func (r *Repository) SetStatus(ctx context.Context, id int64, in statusInput) error {
	return r.client.PutJSON(ctx, itemPath(id), in, nil)
}
