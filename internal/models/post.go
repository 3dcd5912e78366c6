package models

import "time"

// Post is a single forum message: either the opening post of a thread or a
// reply. Every post belongs to exactly one thread.
type Post struct {
	ID          string       `json:"id"`
	ThreadID    string       `json:"threadId"`
	Author      AuthorInfo   `json:"author"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	EditedAt    *time.Time   `json:"editedAt,omitempty"`
	Likes       int          `json:"likes"`
	Reports     int          `json:"reports"`
	Attachments []Attachment `json:"attachments,omitempty"`
}
