package importer

import (
	"strings"

	"certimport-backend/dtos"

	"github.com/google/uuid"
)

// IDSet is a set of identifiers.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// NewConsultantSet keys UUIDs by their canonical lowercase form.
func NewConsultantSet(ids ...string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		if parsed, err := uuid.Parse(strings.TrimSpace(id)); err == nil {
			set[parsed.String()] = struct{}{}
		}
	}
	return set
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Classify marks p as existing or new against the persisted product ids.
func Classify(p *dtos.SpreadsheetProduct, existing IDSet) {
	p.Exists = existing.Has(p.ProductID)
	p.IsNew = !p.Exists
}
