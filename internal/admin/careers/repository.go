package careers

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

const basePath = "/admin/careers"

// Repository reads and writes job postings upstream for one session.
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

func (r *Repository) List(ctx context.Context, query url.Values) (apiclient.Page[Career], error) {
	return apiclient.ListPage[Career](ctx, r.client, basePath, query)
}

func (r *Repository) Get(ctx context.Context, id int64) (Career, error) {
	return apiclient.GetOne[Career](ctx, r.client, itemPath(id))
}

func (r *Repository) Create(ctx context.Context, in CareerInput) error {
	return r.client.PostJSON(ctx, basePath, in, nil)
}

func (r *Repository) Update(ctx context.Context, id int64, in CareerInput) error {
	return r.client.PutJSON(ctx, itemPath(id), in, nil)
}

// Toggle flips the active flag through the DELETE endpoint.
func (r *Repository) Toggle(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, itemPath(id), nil)
}

// UploadVideo replaces the training video.
func (r *Repository) UploadVideo(ctx context.Context, id int64, file apiclient.FilePart) error {
	return r.client.PostMultipart(ctx, itemPath(id)+"/video", apiclient.Multipart{Files: []apiclient.FilePart{file}}, nil)
}
