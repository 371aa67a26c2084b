package visits

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

const basePath = "/daily_visits"

// Repository talks to the daily visit endpoints.
type Repository struct {
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client) *Repository {
	return &Repository{client: client}
}

func itemPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}

func (r *Repository) List(ctx context.Context, query url.Values) (apiclient.Page[Visit], error) {
	return apiclient.ListPage[Visit](ctx, r.client, basePath, query)
}

func (r *Repository) Get(ctx context.Context, id int64) (Visit, error) {
	return apiclient.GetOne[Visit](ctx, r.client, itemPath(id))
}

// Create submits a new visit: the ordered stops as a JSON field plus the
// salesperson's selfie.
func (r *Repository) Create(ctx context.Context, visitDate string, shops []Shop, selfie apiclient.FilePart) error {
	encoded, err := json.Marshal(shops)
	if err != nil {
		return err
	}
	selfie.Field = "selfie"
	form := apiclient.Multipart{
		Fields: url.Values{"shops": {string(encoded)}, "visit_date": {visitDate}},
		Files:  []apiclient.FilePart{selfie},
	}
	return r.client.PostMultipart(ctx, basePath, form, nil)
}

type updateInput struct {
	Shops []Shop `json:"shops"`
}

// Update replaces the stops of an existing visit.
func (r *Repository) Update(ctx context.Context, id int64, shops []Shop) error {
	return r.client.PutJSON(ctx, itemPath(id), updateInput{Shops: shops}, nil)
}
