// Package picker resolves a typed customer name to a short list of upstream
// matches and tracks the chosen customer and address.
package picker

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/sync/singleflight"
)

// Defaults for Options.
const (
	DefaultMinChars = 2
	DefaultDebounce = 300 * time.Millisecond
	DefaultLimit    = 10
)

var (
	// ErrQueryTooShort means the query is below the threshold and nothing was looked up.
	ErrQueryTooShort = errors.New("picker: query too short")
	// ErrSuperseded means a newer query arrived during the debounce wait.
	ErrSuperseded = errors.New("picker: superseded by a newer query")
	// ErrStale means the lookup finished after a newer one was issued; its result was dropped.
	ErrStale = errors.New("picker: stale response discarded")
	// ErrUnknownAddress rejects an address that does not belong to the chosen customer.
	ErrUnknownAddress = errors.New("picker: address does not belong to customer")
	// ErrNoCustomer is returned when an address is chosen before a customer.
	ErrNoCustomer = errors.New("picker: no customer selected")
)

// Address is one delivery address of a customer.
type Address struct {
	ID    int64  `json:"address_id"`
	Label string `json:"label,omitempty"`
	Line  string `json:"address"`
	City  string `json:"city,omitempty"`
}

// Candidate is a customer match.
type Candidate struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Tier      string    `json:"tier,omitempty"`
	Addresses []Address `json:"addresses,omitempty"`
}

// Lookup is the upstream side of the picker. It is bound to the caller's
// session, so it is supplied per call.
type Lookup interface {
	SearchCustomers(ctx context.Context, query string) ([]Candidate, error)
	CustomerAddresses(ctx context.Context, customerID int64) ([]Address, error)
}

// Options tunes a Picker.
type Options struct {
	MinChars int
	Debounce time.Duration
	Limit    int
}

func (o Options) withDefaults() Options {
	if o.MinChars <= 0 {
		o.MinChars = DefaultMinChars
	}
	if o.Debounce < 0 {
		o.Debounce = 0
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	return o
}

// Selection is the picker's current choice.
type Selection struct {
	Customer  *Candidate `json:"customer"`
	Addresses []Address  `json:"addresses"`
	AddressID int64      `json:"address_id,omitempty"`
}

// Picker is safe for concurrent use; overlapping searches resolve last-query-wins.
type Picker struct {
	opts Options

	mu         sync.Mutex
	seq        uint64
	selSeq     uint64
	query      string
	candidates []Candidate
	selection  Selection

	addresses singleflight.Group
}

// New returns an empty picker.
func New(opts Options) *Picker {
	return &Picker{opts: opts.withDefaults()}
}

// Search debounces text and replaces the candidate set with the ranked matches.
// Queries below the threshold are ignored without touching the candidates.
func (p *Picker) Search(ctx context.Context, lookup Lookup, text string) ([]Candidate, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < p.opts.MinChars {
		return nil, ErrQueryTooShort
	}

	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	if p.opts.Debounce > 0 {
		timer := time.NewTimer(p.opts.Debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		if !p.isLatest(seq) {
			return nil, ErrSuperseded
		}
	}

	found, err := lookup.SearchCustomers(ctx, text)

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.seq {
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}
	p.query = text
	p.candidates = rank(text, found, p.opts.Limit)
	return slices.Clone(p.candidates), nil
}

// Candidates returns the current candidate set.
func (p *Picker) Candidates() []Candidate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.candidates)
}

// Query returns the text behind the current candidates.
func (p *Picker) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Select makes c the chosen customer and loads its de-duplicated addresses.
// The previously chosen address is kept only if c has an address with the same id.
// When a later Select finishes first, the earlier one returns ErrStale.
func (p *Picker) Select(ctx context.Context, lookup Lookup, c Candidate) (Selection, error) {
	p.mu.Lock()
	p.selSeq++
	seq := p.selSeq
	p.mu.Unlock()

	addresses := c.Addresses
	if addresses == nil {
		key := strconv.FormatInt(c.ID, 10)
		v, err, _ := p.addresses.Do(key, func() (any, error) {
			return lookup.CustomerAddresses(ctx, c.ID)
		})
		if err != nil {
			return p.Selection(), err
		}
		addresses, _ = v.([]Address)
	}
	addresses = DedupAddresses(addresses)

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.selSeq {
		return p.copySelection(), ErrStale
	}
	chosen := c
	chosen.Addresses = addresses
	keep := int64(0)
	if p.selection.AddressID != 0 && slices.ContainsFunc(addresses, func(a Address) bool { return a.ID == p.selection.AddressID }) {
		keep = p.selection.AddressID
	}
	p.selection = Selection{Customer: &chosen, Addresses: addresses, AddressID: keep}
	return p.copySelection(), nil
}

// SelectByID selects a candidate from the current set.
func (p *Picker) SelectByID(ctx context.Context, lookup Lookup, id int64) (Selection, error) {
	p.mu.Lock()
	idx := slices.IndexFunc(p.candidates, func(c Candidate) bool { return c.ID == id })
	var c Candidate
	if idx >= 0 {
		c = p.candidates[idx]
	}
	p.mu.Unlock()
	if idx < 0 {
		return p.Selection(), ErrNoCustomer
	}
	return p.Select(ctx, lookup, c)
}

// ChooseAddress picks one of the chosen customer's addresses.
func (p *Picker) ChooseAddress(id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selection.Customer == nil {
		return ErrNoCustomer
	}
	if !slices.ContainsFunc(p.selection.Addresses, func(a Address) bool { return a.ID == id }) {
		return ErrUnknownAddress
	}
	p.selection.AddressID = id
	return nil
}

// Selection returns the current choice.
func (p *Picker) Selection() Selection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copySelection()
}

// Reset clears candidates and selection. In-flight searches become stale.
func (p *Picker) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	p.query = ""
	p.candidates = nil
	p.selection = Selection{}
}

func (p *Picker) isLatest(seq uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return seq == p.seq
}

func (p *Picker) copySelection() Selection {
	out := Selection{AddressID: p.selection.AddressID, Addresses: slices.Clone(p.selection.Addresses)}
	if p.selection.Customer != nil {
		c := *p.selection.Customer
		out.Customer = &c
	}
	return out
}

// DedupAddresses drops repeated address ids, keeping the first occurrence and the order.
func DedupAddresses(in []Address) []Address {
	seen := make(map[int64]struct{}, len(in))
	out := make([]Address, 0, len(in))
	for _, a := range in {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}

// rank orders matches: names starting with the query first, then by edit
// distance, then alphabetically.
func rank(query string, found []Candidate, limit int) []Candidate {
	q := strings.ToLower(query)
	type scored struct {
		c      Candidate
		prefix bool
		dist   int
	}
	list := make([]scored, 0, len(found))
	for _, c := range found {
		name := strings.ToLower(c.Name)
		list = append(list, scored{c: c, prefix: strings.HasPrefix(name, q), dist: levenshtein.ComputeDistance(q, name)})
	}
	slices.SortStableFunc(list, func(a, b scored) int {
		if a.prefix != b.prefix {
			if a.prefix {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		return cmp.Compare(a.c.Name, b.c.Name)
	})
	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]Candidate, len(list))
	for i, s := range list {
		out[i] = s.c
	}
	return out
}
