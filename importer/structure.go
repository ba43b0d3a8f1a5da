package importer

import (
	"fmt"
	"strings"
)

// ValidateStructure checks that every required header position holds text.
// Columns are located by position; the labels only feed the messages.
func (s *Service) ValidateStructure(header []string) []string {
	var msgs []string
	for _, col := range s.cfg.Columns.required() {
		if col.index < len(header) && strings.TrimSpace(header[col.index]) != "" {
			continue
		}
		msgs = append(msgs, fmt.Sprintf("Missing required column %s in column %s (position %d)",
			col.label, ColumnLetter(col.index), col.index+1))
	}
	return msgs
}
