// Package visits records the shops a salesperson visits in a day. A visit is
// edited as an ordered draft of shop stops kept in the session until submit.
package visits

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Wire values of the "kind" discriminator.
const (
	KindCustomer = "customer"
	KindProspect = "potential"
)

var (
	ErrNoTarget        = errors.New("choose a customer or enter a potential customer")
	ErrNoAddress       = errors.New("choose the customer's address")
	ErrProspectName    = errors.New("potential customer name is required")
	ErrProspectAddress = errors.New("potential customer address is required")
	ErrReason          = errors.New("visit reason is required")
	ErrUnknownKind     = errors.New("unknown shop kind")
)

// Target is the shop a stop refers to: a CustomerTarget or a ProspectTarget.
type Target interface {
	Kind() string
	Label() string
}

// CustomerTarget is an existing customer at one of its addresses.
type CustomerTarget struct {
	CustomerID   int64  `json:"customer_id"`
	CustomerName string `json:"customer_name,omitempty"`
	AddressID    int64  `json:"address_id"`
	Address      string `json:"address,omitempty"`
}

func (CustomerTarget) Kind() string { return KindCustomer }

func (t CustomerTarget) Label() string { return t.CustomerName }

// ProspectTarget is a shop that is not a customer yet.
type ProspectTarget struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Tier    string `json:"tier,omitempty"`
}

func (ProspectTarget) Kind() string { return KindProspect }

func (t ProspectTarget) Label() string { return t.Name }

// Shop is one stop of a visit.
type Shop struct {
	Target Target
	Reason string
}

// Validate reports the first missing field of a stop.
func (s Shop) Validate() error {
	switch t := s.Target.(type) {
	case CustomerTarget:
		if t.CustomerID <= 0 {
			return ErrNoTarget
		}
		if t.AddressID <= 0 {
			return ErrNoAddress
		}
	case ProspectTarget:
		if t.Name == "" {
			return ErrProspectName
		}
		if t.Address == "" {
			return ErrProspectAddress
		}
	default:
		return ErrNoTarget
	}
	if s.Reason == "" {
		return ErrReason
	}
	return nil
}

type shopWire struct {
	Kind         string `json:"kind"`
	CustomerID   int64  `json:"customer_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	AddressID    int64  `json:"address_id,omitempty"`
	Address      string `json:"address,omitempty"`
	Name         string `json:"name,omitempty"`
	Tier         string `json:"tier,omitempty"`
	Reason       string `json:"reason"`
}

// MarshalJSON writes the stop with its "kind" discriminator.
func (s Shop) MarshalJSON() ([]byte, error) {
	w := shopWire{Reason: s.Reason}
	switch t := s.Target.(type) {
	case CustomerTarget:
		w.Kind = KindCustomer
		w.CustomerID, w.CustomerName, w.AddressID, w.Address = t.CustomerID, t.CustomerName, t.AddressID, t.Address
	case ProspectTarget:
		w.Kind = KindProspect
		w.Name, w.Address, w.Tier = t.Name, t.Address, t.Tier
	default:
		return nil, ErrNoTarget
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads a stop. Only the fields of its kind are kept.
func (s *Shop) UnmarshalJSON(data []byte) error {
	var w shopWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case KindCustomer:
		s.Target = CustomerTarget{CustomerID: w.CustomerID, CustomerName: w.CustomerName, AddressID: w.AddressID, Address: w.Address}
	case KindProspect:
		s.Target = ProspectTarget{Name: w.Name, Address: w.Address, Tier: w.Tier}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, w.Kind)
	}
	s.Reason = w.Reason
	return nil
}
