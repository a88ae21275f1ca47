package models

import "time"

// Document is a text document owned by exactly one user. Documents are
// immutable once created; the only mutation is deletion.
type Document struct {
	ID        string
	OwnerID   string
	Filename  string
	MIME      string
	Content   string
	CreatedAt time.Time
}
