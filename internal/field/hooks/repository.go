package hooks

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

const basePath = "/hooks"

// Repository talks to the hook tracking endpoints.
type Repository struct {
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client) *Repository {
	return &Repository{client: client}
}

func itemPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}

func (r *Repository) List(ctx context.Context, query url.Values) (apiclient.Page[Hook], error) {
	return apiclient.ListPage[Hook](ctx, r.client, basePath, query)
}

func (r *Repository) Get(ctx context.Context, id int64) (Hook, error) {
	return apiclient.GetOne[Hook](ctx, r.client, itemPath(id))
}

func (r *Repository) Create(ctx context.Context, in HookInput) error {
	return r.client.PostJSON(ctx, basePath, in, nil)
}

func (r *Repository) Update(ctx context.Context, id int64, in HookInput) error {
	return r.client.PutJSON(ctx, itemPath(id), in, nil)
}

// Toggle flips the active flag through the DELETE endpoint.
func (r *Repository) Toggle(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, itemPath(id), nil)
}
