// internal/database/thread_repository.go
package database

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"relawan-hub/internal/models"
	"relawan-hub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ThreadDocument represents the MongoDB schema for a thread.
type ThreadDocument struct {
	ID                  string             `bson:"_id"`
	Title               string             `bson:"title"`
	Author              models.AuthorInfo  `bson:"author"`
	OriginalPostContent string             `bson:"originalpostcontent"`
	OriginalPostID      string             `bson:"originalpostid"`
	CreatedAt           time.Time          `bson:"createdat"`
	LastActivity        time.Time          `bson:"lastactivity"`
	ReplyCount          int                `bson:"replycount"`
	ViewCount           int                `bson:"viewcount"`
	IsLocked            bool               `bson:"islocked"`
	IsPinned            bool               `bson:"ispinned"`
}

func threadToDocument(thread *models.Thread) *ThreadDocument {
	return &ThreadDocument{
		ID:                  thread.ID,
		Title:               thread.Title,
		Author:              thread.Author,
		OriginalPostContent: thread.OriginalPostContent,
		OriginalPostID:      thread.OriginalPostID,
		CreatedAt:           thread.CreatedAt,
		LastActivity:        thread.LastActivity,
		ReplyCount:          thread.ReplyCount,
		ViewCount:           thread.ViewCount,
		IsLocked:            thread.IsLocked,
		IsPinned:            thread.IsPinned,
	}
}

func documentToThread(doc *ThreadDocument) *models.Thread {
	return &models.Thread{
		ID:                  doc.ID,
		Title:               doc.Title,
		Author:              doc.Author,
		OriginalPostContent: doc.OriginalPostContent,
		OriginalPostID:      doc.OriginalPostID,
		CreatedAt:           doc.CreatedAt,
		LastActivity:        doc.LastActivity,
		ReplyCount:          doc.ReplyCount,
		ViewCount:           doc.ViewCount,
		IsLocked:            doc.IsLocked,
		IsPinned:            doc.IsPinned,
	}
}

// SaveThread creates or updates a thread in MongoDB.
func (m *MongoDB) SaveThread(ctx context.Context, thread *models.Thread) error {
	doc := threadToDocument(thread)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": thread.ID}
	update := bson.M{"$set": doc}

	_, err := m.Threads.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetThread retrieves a thread by its ID.
func (m *MongoDB) GetThread(ctx context.Context, id string) (*models.Thread, error) {
	var doc ThreadDocument

	err := m.Threads.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewThreadNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}

	return documentToThread(&doc), nil
}

// GetAllThreads retrieves all threads ordered by last activity, newest first.
func (m *MongoDB) GetAllThreads(ctx context.Context) ([]*models.Thread, error) {
	opts := options.Find().SetSort(bson.D{{Key: "lastactivity", Value: -1}})
	cursor, err := m.Threads.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %v", err)
	}
	defer cursor.Close(ctx)

	return decodeThreads(ctx, cursor)
}

// SearchThreads finds threads whose title or opening content contains the
// query, case-insensitively. The query is escaped before being handed to the
// regex engine, so matching is plain substring.
func (m *MongoDB) SearchThreads(ctx context.Context, query string) ([]*models.Thread, error) {
	pattern := regexp.QuoteMeta(query)
	filter := bson.M{
		"$or": []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"originalpostcontent": bson.M{"$regex": pattern, "$options": "i"}},
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "lastactivity", Value: -1}})
	cursor, err := m.Threads.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %v", err)
	}
	defer cursor.Close(ctx)

	return decodeThreads(ctx, cursor)
}

// IncrementThreadViews bumps the view counter by one. Fetching a thread is
// non-idempotent; refreshes count again.
func (m *MongoDB) IncrementThreadViews(ctx context.Context, threadID string) error {
	filter := bson.M{"_id": threadID}
	update := bson.M{"$inc": bson.M{"viewcount": 1}}

	result, err := m.Threads.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewThreadNotFoundError(threadID)
	}
	return nil
}

// BumpThreadActivity records an accepted reply: sets lastActivity and
// increments replyCount in one atomic update, so concurrent replies never
// lose counts to a read-modify-write race.
func (m *MongoDB) BumpThreadActivity(ctx context.Context, threadID string, lastActivity time.Time) error {
	filter := bson.M{"_id": threadID}
	update := bson.M{
		"$set": bson.M{"lastactivity": lastActivity},
		"$inc": bson.M{"replycount": 1},
	}

	result, err := m.Threads.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewThreadNotFoundError(threadID)
	}
	return nil
}

// DeleteThread removes a thread and all posts that belong to it.
func (m *MongoDB) DeleteThread(ctx context.Context, threadID string) error {
	result, err := m.Threads.DeleteOne(ctx, bson.M{"_id": threadID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewThreadNotFoundError(threadID)
	}

	deleted, err := m.Posts.DeleteMany(ctx, bson.M{"threadid": threadID})
	if err != nil {
		return fmt.Errorf("failed to delete posts for thread %s: %v", threadID, err)
	}

	log.Printf("Deleted thread %s and %d posts", threadID, deleted.DeletedCount)
	return nil
}

// CountThreads returns the total number of threads.
func (m *MongoDB) CountThreads(ctx context.Context) (int64, error) {
	return m.Threads.CountDocuments(ctx, bson.M{})
}

func decodeThreads(ctx context.Context, cursor *mongo.Cursor) ([]*models.Thread, error) {
	threads := make([]*models.Thread, 0)
	for cursor.Next(ctx) {
		var doc ThreadDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding thread document: %v", err)
			continue
		}
		threads = append(threads, documentToThread(&doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}
	return threads, nil
}
