package announcements

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

const basePath = "/admin/announcements"

// Repository reads and writes announcements upstream for one session.
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

// List returns one page of announcements.
func (r *Repository) List(ctx context.Context, query url.Values) (apiclient.Page[Announcement], error) {
	return apiclient.ListPage[Announcement](ctx, r.client, basePath, query)
}

// Get loads one announcement.
func (r *Repository) Get(ctx context.Context, id int64) (Announcement, error) {
	return apiclient.GetOne[Announcement](ctx, r.client, itemPath(id))
}

// Create stores a new announcement.
func (r *Repository) Create(ctx context.Context, in AnnouncementInput) error {
	return r.client.PostJSON(ctx, basePath, in, nil)
}

// Update replaces an announcement.
func (r *Repository) Update(ctx context.Context, id int64, in AnnouncementInput) error {
	return r.client.PutJSON(ctx, itemPath(id), in, nil)
}

// Toggle flips the active flag. The API exposes this as DELETE.
func (r *Repository) Toggle(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, itemPath(id), nil)
}

// UploadAudio attaches a voice recording.
func (r *Repository) UploadAudio(ctx context.Context, id int64, file apiclient.FilePart) error {
	return r.client.PostMultipart(ctx, itemPath(id)+"/audio", apiclient.Multipart{Files: []apiclient.FilePart{file}}, nil)
}
