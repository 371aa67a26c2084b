package visits

import (
	"time"

	"github.com/fieldsales/backoffice/internal/listedit"
)

// Visit is one submitted day of shop visits.
type Visit struct {
	ID        int64     `json:"id"`
	VisitDate string    `json:"visit_date"`
	SalesName string    `json:"sales_name"`
	Shops     []Shop    `json:"shops"`
	SelfieURL string    `json:"selfie_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Draft is a visit being edited. VisitID is zero until the visit exists upstream.
type Draft struct {
	VisitID   int64                  `json:"visit_id,omitempty"`
	VisitDate string                 `json:"visit_date"`
	Shops     *listedit.Editor[Shop] `json:"shops"`
}

// DraftStore keeps drafts between requests.
type DraftStore interface {
	SetJSON(key string, v any) error
	GetJSON(key string, dest any) (bool, error)
	Delete(key string)
}

const draftKey = "draft:visit"

// LoadDraft returns the stored draft, if any.
func LoadDraft(store DraftStore) (Draft, bool, error) {
	var d Draft
	ok, err := store.GetJSON(draftKey, &d)
	if err != nil || !ok {
		return Draft{}, false, err
	}
	if d.Shops == nil {
		d.Shops = listedit.New[Shop]()
	}
	return d, true, nil
}

// SaveDraft stores d.
func SaveDraft(store DraftStore, d Draft) error {
	return store.SetJSON(draftKey, d)
}

// DiscardDraft forgets the stored draft.
func DiscardDraft(store DraftStore) {
	store.Delete(draftKey)
}
