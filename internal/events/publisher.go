// Package events carries the stale signals the submission workflow emits
// after a successful persist, so downstream caches and rendered views know
// to re-read the affected thread and the forum listing.
package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectForumStale  = "forum.stale"
	SubjectThreadStale = "forum.thread.stale"
)

// StaleEvent tells subscribers which thread (if any) went stale and when.
type StaleEvent struct {
	ThreadID  string    `json:"threadId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher signals downstream caches that forum data changed.
type Publisher interface {
	ThreadStale(threadID string)
	ForumStale()
	Close()
}

// NATSPublisher publishes stale events over NATS.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	log.Printf("Connected to NATS at %s", url)
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) ThreadStale(threadID string) {
	p.publish(SubjectThreadStale, StaleEvent{ThreadID: threadID, Timestamp: time.Now()})
}

func (p *NATSPublisher) ForumStale() {
	p.publish(SubjectForumStale, StaleEvent{Timestamp: time.Now()})
}

// publish is best-effort: a lost stale signal means a stale cache, not
// lost data, so failures are logged and swallowed.
func (p *NATSPublisher) publish(subject string, event StaleEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal stale event: %v", err)
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		log.Printf("Failed to publish %s: %v", subject, err)
	}
}

func (p *NATSPublisher) Close() {
	p.conn.Close()
}

// NoopPublisher is used when no NATS URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) ThreadStale(string) {}
func (NoopPublisher) ForumStale()        {}
func (NoopPublisher) Close()             {}
