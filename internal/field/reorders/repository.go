package reorders

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

const basePath = "/expected_reorders"

// Repository talks to the expected reorder endpoints.
type Repository struct {
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client) *Repository {
	return &Repository{client: client}
}

func itemPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}

func (r *Repository) List(ctx context.Context, query url.Values) (apiclient.Page[Reorder], error) {
	return apiclient.ListPage[Reorder](ctx, r.client, basePath, query)
}

func (r *Repository) Get(ctx context.Context, id int64) (Reorder, error) {
	return apiclient.GetOne[Reorder](ctx, r.client, itemPath(id))
}

func (r *Repository) Create(ctx context.Context, in ReorderInput) error {
	return r.client.PostJSON(ctx, basePath, in, nil)
}

func (r *Repository) Update(ctx context.Context, id int64, in ReorderInput) error {
	return r.client.PutJSON(ctx, itemPath(id), in, nil)
}
