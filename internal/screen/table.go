package screen

import (
	"net/url"

	"github.com/fieldsales/backoffice/internal/shared"
)

// Table is the view model of the shared list page.
type Table struct {
	Heading  string
	BasePath string
	NewURL   string
	NewLabel string
	Columns  []string
	Rows     []Row
	Pager    shared.Pager
	Filters  []Filter
	Query    url.Values
	Exports  []Action
	Empty    string
}

// Row is one table line.
type Row struct {
	Cells   []string
	Link    string
	Actions []Action
}

// Action is a link or a POST button.
type Action struct {
	Label   string
	URL     string
	Post    bool
	Confirm string
	Fields  map[string]string
}

// Filter is a list filter control.
type Filter struct {
	Name    string
	Label   string
	Type    string
	Value   string
	Options []Option
}

// Option is one select choice.
type Option struct {
	Value string
	Label string
}

// StatusOptions are the filter choices shared by resources with an active flag.
var StatusOptions = []Option{{Value: "", Label: "All"}, {Value: "active", Label: "Active"}, {Value: "inactive", Label: "Inactive"}}

// FilterValues collects filter inputs into upstream query parameters.
func FilterValues(q url.Values, names ...string) url.Values {
	out := url.Values{}
	for _, name := range names {
		if v := q.Get(name); v != "" {
			out.Set(name, v)
		}
	}
	return out
}

// ActiveLabel renders an active flag.
func ActiveLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}
