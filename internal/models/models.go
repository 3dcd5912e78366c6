package models

// AuthorInfo is the denormalized author snapshot embedded in threads and
// posts at creation time. It is intentionally never updated when the user
// later changes their profile: forum history shows the name at posting time.
type AuthorInfo struct {
	UserID    string `json:"userId" bson:"userid"`
	Name      string `json:"name" bson:"name"`
	AvatarURL string `json:"avatarUrl,omitempty" bson:"avatarurl,omitempty"`
}

// AttachmentType distinguishes the kinds of files a post can carry.
type AttachmentType string

const (
	AttachmentImage    AttachmentType = "image"
	AttachmentDocument AttachmentType = "document"
)

// Attachment is a file reference attached to a post.
type Attachment struct {
	Type AttachmentType `json:"type" bson:"type"`
	URL  string         `json:"url" bson:"url"`
	Name string         `json:"name" bson:"name"`
}

// ModerationResult is the verdict returned by a content moderation check.
type ModerationResult struct {
	IsAppropriate bool    `json:"isAppropriate"`
	Reason        string  `json:"reason,omitempty"`
	Score         float64 `json:"score,omitempty"`
}

// SubmissionResult is the uniform outcome of the submission workflow.
// Every failure mode (validation, moderation rejection, storage) is folded
// into this shape instead of propagating raw errors to the client.
type SubmissionResult struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	NewThreadID string            `json:"newThreadId,omitempty"`
	Thread      *Thread           `json:"thread,omitempty"`
	Post        *Post             `json:"post,omitempty"`
	Moderation  *ModerationResult `json:"moderation,omitempty"`
	ErrorFields map[string]string `json:"errorFields,omitempty"`
}
