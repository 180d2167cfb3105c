// Package models defines data structures for the Second Brain knowledge store.
package models

import (
	"fmt"
	"strings"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// RecordIDString safely extracts the string ID from a SurrealDB RecordID.
// Returns an error if the ID is not a string type.
func RecordIDString(id surrealmodels.RecordID) (string, error) {
	s, ok := id.ID.(string)
	if !ok {
		return "", fmt.Errorf("unexpected ID type: %T (expected string)", id.ID)
	}
	return s, nil
}

// HasTagContaining reports whether any tag of m contains fragment, ignoring case.
// An empty fragment matches every memory.
func HasTagContaining(m Memory, fragment string) bool {
	fragment = strings.ToLower(fragment)
	if fragment == "" {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), fragment) {
			return true
		}
	}
	return false
}
