package models

import "time"

// Memory is a user-authored knowledge record.
// The owner is a storage concern and is not part of the JSON shape.
type Memory struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MemoryInput is the payload for creating a memory.
type MemoryInput struct {
	Title   string   `json:"title" validate:"required,min=1,max=200"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

// MemoryPatch carries a partial update. Nil fields are left untouched.
type MemoryPatch struct {
	Title   *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content *string   `json:"content,omitempty" validate:"omitempty,min=1"`
	Tags    *[]string `json:"tags,omitempty"`
}

// Apply returns a copy of m with the patch applied. UpdatedAt is not touched.
func (p MemoryPatch) Apply(m Memory) Memory {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Content != nil {
		m.Content = *p.Content
	}
	if p.Tags != nil {
		m.Tags = NormalizeTags(*p.Tags)
	}
	return m
}

// ListOptions filters a memory listing.
type ListOptions struct {
	// Tag keeps memories with at least one tag containing it (case-insensitive).
	Tag string
	// Limit truncates the newest-first listing when > 0.
	Limit int
}

// SearchResult is the answer synthesized for a query plus the ranked references.
type SearchResult struct {
	Answer     string   `json:"answer"`
	References []Memory `json:"references"`
}

// NormalizeTags returns a non-nil tag slice so JSON renders [] instead of null.
func NormalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
