package partners

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

const basePath = "/admin/delivery_partners"

// Repository talks to the delivery partner endpoints.
type Repository struct {
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client) *Repository {
	return &Repository{client: client}
}

func itemPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}

func (r *Repository) List(ctx context.Context, query url.Values) (apiclient.Page[Partner], error) {
	return apiclient.ListPage[Partner](ctx, r.client, basePath, query)
}

func (r *Repository) Get(ctx context.Context, id int64) (Partner, error) {
	return apiclient.GetOne[Partner](ctx, r.client, itemPath(id))
}

func (r *Repository) Create(ctx context.Context, in PartnerInput) error {
	return r.client.PostJSON(ctx, basePath, in, nil)
}

func (r *Repository) Update(ctx context.Context, id int64, in PartnerInput) error {
	return r.client.PutJSON(ctx, itemPath(id), in, nil)
}
