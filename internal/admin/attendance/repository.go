package attendance

import (
	"context"
	"net/url"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

const basePath = "/admin/attendance"

// Repository reads attendance upstream.
type Repository struct {
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) List(ctx context.Context, query url.Values) (apiclient.Page[Record], error) {
	return apiclient.ListPage[Record](ctx, r.client, basePath, query)
}
