package models

import "time"

// Thread is a forum discussion topic anchored by one opening post.
// OriginalPostID always references a Post whose ThreadID points back here.
type Thread struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Author              AuthorInfo `json:"author"`
	OriginalPostContent string     `json:"originalPostContent"` // first 200 chars of the opening post, for list display
	OriginalPostID      string     `json:"originalPostId"`
	CreatedAt           time.Time  `json:"createdAt"`
	LastActivity        time.Time  `json:"lastActivity"`
	ReplyCount          int        `json:"replyCount"`
	ViewCount           int        `json:"viewCount"`
	IsLocked            bool       `json:"isLocked,omitempty"`
	IsPinned            bool       `json:"isPinned,omitempty"`
}
