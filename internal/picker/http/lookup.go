package pickerhttp

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fieldsales/backoffice/internal/picker"
	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

const searchLimit = 25

// APILookup resolves picker queries against the customer endpoints with the
// caller's token.
type APILookup struct {
	client *apiclient.Client
}

// NewLookup binds a lookup to a session client.
func NewLookup(client *apiclient.Client) *APILookup {
	return &APILookup{client: client}
}

// SearchCustomers returns customers whose name matches query.
func (l *APILookup) SearchCustomers(ctx context.Context, query string) ([]picker.Candidate, error) {
	q := url.Values{"search": {query}, "limit": {strconv.Itoa(searchLimit)}}
	page, err := apiclient.ListPage[picker.Candidate](ctx, l.client, "/customers", q)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// CustomerAddresses returns the raw address list of a customer. It may hold
// duplicates; the picker removes them.
func (l *APILookup) CustomerAddresses(ctx context.Context, customerID int64) ([]picker.Address, error) {
	return apiclient.GetOne[[]picker.Address](ctx, l.client, "/customers/"+strconv.FormatInt(customerID, 10)+"/addresses")
}
