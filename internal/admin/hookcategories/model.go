// Package hookcategories manages the kinds of display hooks tracked in shops.
package hookcategories

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

const basePath = "/hooks/categories"

// Category is one hook category.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"is_active"`
}

// CategoryInput is the create/edit payload.
type CategoryInput struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"max=500"`
	Active      bool   `json:"is_active" form:"is_active"`
}

// Repository reads and writes hook categories for one session.
type Repository struct {
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client) *Repository {
	return &Repository{client: client}
}

func itemPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}

func (r *Repository) List(ctx context.Context, query url.Values) (apiclient.Page[Category], error) {
	return apiclient.ListPage[Category](ctx, r.client, basePath, query)
}

// Active returns every active category, for pickers in other screens.
func (r *Repository) Active(ctx context.Context) ([]Category, error) {
	page, err := r.List(ctx, url.Values{"status": {"active"}, "limit": {"100"}})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (Category, error) {
	return apiclient.GetOne[Category](ctx, r.client, itemPath(id))
}

func (r *Repository) Create(ctx context.Context, in CategoryInput) error {
	return r.client.PostJSON(ctx, basePath, in, nil)
}

func (r *Repository) Update(ctx context.Context, id int64, in CategoryInput) error {
	return r.client.PutJSON(ctx, itemPath(id), in, nil)
}

// Toggle flips the active flag through the DELETE endpoint.
func (r *Repository) Toggle(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, itemPath(id), nil)
}
