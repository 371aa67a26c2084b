package visits

import "github.com/fieldsales/backoffice/internal/listedit"

// Editable fields of a stop. The prospect field only applies to prospect
// stops; setting it on a customer stop is a no-op.
var (
	reasonField = listedit.Field[Shop, string]{
		Name: "reason",
		Get:  func(s Shop) string { return s.Reason },
		Set: func(s Shop, v string) Shop {
			s.Reason = v
			return s
		},
	}
	prospectField = listedit.Field[Shop, ProspectTarget]{
		Name: "prospect",
		Get: func(s Shop) ProspectTarget {
			p, _ := s.Target.(ProspectTarget)
			return p
		},
		Set: func(s Shop, v ProspectTarget) Shop {
			if _, ok := s.Target.(ProspectTarget); ok {
				s.Target = v
			}
			return s
		},
	}
)
