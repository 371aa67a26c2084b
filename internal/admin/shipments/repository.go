package shipments

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

const basePath = "/shipments"

// Repository talks to the shipment endpoints.
type Repository struct {
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client) *Repository {
	return &Repository{client: client}
}

func itemPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}

func (r *Repository) List(ctx context.Context, query url.Values) (apiclient.Page[Shipment], error) {
	return apiclient.ListPage[Shipment](ctx, r.client, basePath, query)
}

func (r *Repository) Get(ctx context.Context, id int64) (Shipment, error) {
	return apiclient.GetOne[Shipment](ctx, r.client, itemPath(id))
}

func (r *Repository) Create(ctx context.Context, in ShipmentInput) (Shipment, error) {
	var env apiclient.Envelope[Shipment]
	err := r.client.PostJSON(ctx, basePath, in, &env)
	return env.Data, err
}

func (r *Repository) Update(ctx context.Context, id int64, in ShipmentInput) error {
	return r.client.PutJSON(ctx, itemPath(id), in, nil)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, itemPath(id), nil)
}

// AddImages uploads one or more photos in a single request.
func (r *Repository) AddImages(ctx context.Context, id int64, files []apiclient.FilePart) error {
	return r.client.PostMultipart(ctx, itemPath(id)+"/images", apiclient.Multipart{Files: files}, nil)
}

// DeleteImage removes the photo at idx of the shipment's image list.
func (r *Repository) DeleteImage(ctx context.Context, id int64, idx int) error {
	return r.client.Delete(ctx, itemPath(id)+"/images/"+strconv.Itoa(idx), nil)
}
