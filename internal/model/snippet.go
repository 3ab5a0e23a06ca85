// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Snippet represents a shared code snippet and its rendering preferences.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize/deserialize
// this struct to/from JSON. This is called a "struct tag" — metadata attached to fields.
//
// FIELD GROUPS:
//   - Identity:   ID (assigned once), CreatedAt (set once), OwnerID (set once —
//     there is deliberately no code path that reassigns it)
//   - Content:    Title, Code
//   - Rendering:  Linenos, Language, Style
//   - Derived:    Highlighted — the styled HTML document rendered from the
//     content and rendering fields. It is recomputed on EVERY write, so it is
//     always consistent with the other fields as of the last completed write.
//     Clients never submit it; the service layer overwrites whatever they send.
//
// WHY STORE Highlighted INSTEAD OF RENDERING ON READ?
// Rendering runs the full lexer over the code. Snippets are read far more
// often than they're written, so we pay the cost once per write and serve the
// stored document on every read.
type Snippet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Code        string    `json:"code"`
	Linenos     bool      `json:"linenos"`
	Language    string    `json:"language"`
	Style       string    `json:"style"`
	Highlighted string    `json:"highlighted"`
	OwnerID     string    `json:"ownerId"`
	Owner       string    `json:"owner"` // owner's username, filled by a JOIN on read
	CreatedAt   time.Time `json:"created"`
	UpdatedAt   time.Time `json:"updated"`
}

// DefaultLanguage and DefaultStyle are applied when a create request omits
// the corresponding field. Both names exist in the chroma registries.
const (
	DefaultLanguage = "python"
	DefaultStyle    = "friendly"
)
