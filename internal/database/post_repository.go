// internal/database/post_repository.go
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

// PostDocument represents the MongoDB schema for a post.
type PostDocument struct {
	ID          string              `bson:"_id"`
	ThreadID    string              `bson:"threadid"`
	Author      models.AuthorInfo   `bson:"author"`
	Content     string              `bson:"content"`
	Timestamp   time.Time           `bson:"timestamp"`
	EditedAt    *time.Time          `bson:"editedat,omitempty"`
	Likes       int                 `bson:"likes"`
	Reports     int                 `bson:"reports"`
	Attachments []models.Attachment `bson:"attachments,omitempty"`
}

func postToDocument(post *models.Post) *PostDocument {
	return &PostDocument{
		ID:          post.ID,
		ThreadID:    post.ThreadID,
		Author:      post.Author,
		Content:     post.Content,
		Timestamp:   post.Timestamp,
		EditedAt:    post.EditedAt,
		Likes:       post.Likes,
		Reports:     post.Reports,
		Attachments: post.Attachments,
	}
}

func documentToPost(doc *PostDocument) *models.Post {
	return &models.Post{
		ID:          doc.ID,
		ThreadID:    doc.ThreadID,
		Author:      doc.Author,
		Content:     doc.Content,
		Timestamp:   doc.Timestamp,
		EditedAt:    doc.EditedAt,
		Likes:       doc.Likes,
		Reports:     doc.Reports,
		Attachments: doc.Attachments,
	}
}

// SavePost creates or updates a post in MongoDB.
func (m *MongoDB) SavePost(ctx context.Context, post *models.Post) error {
	doc := postToDocument(post)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": post.ID}
	update := bson.M{"$set": doc}

	_, err := m.Posts.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetPost retrieves a post by its ID.
func (m *MongoDB) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewPostNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}

	return documentToPost(&doc), nil
}

// GetThreadPosts retrieves all posts for a thread, oldest first.
func (m *MongoDB) GetThreadPosts(ctx context.Context, threadID string) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := m.Posts.Find(ctx, bson.M{"threadid": threadID}, opts)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %v", err)
	}
	defer cursor.Close(ctx)

	return decodePosts(ctx, cursor)
}

// GetUserPosts retrieves all posts authored by a user, newest first.
func (m *MongoDB) GetUserPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := m.Posts.Find(ctx, bson.M{"author.userid": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %v", err)
	}
	defer cursor.Close(ctx)

	return decodePosts(ctx, cursor)
}

// SearchPosts finds posts whose content contains the query,
// case-insensitively, newest first. Substring semantics, same as threads.
func (m *MongoDB) SearchPosts(ctx context.Context, query string) ([]*models.Post, error) {
	pattern := regexp.QuoteMeta(query)
	filter := bson.M{"content": bson.M{"$regex": pattern, "$options": "i"}}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := m.Posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %v", err)
	}
	defer cursor.Close(ctx)

	return decodePosts(ctx, cursor)
}

// IncrementPostCounters adjusts the like and report counters atomically.
func (m *MongoDB) IncrementPostCounters(ctx context.Context, postID string, likesDelta, reportsDelta int) error {
	filter := bson.M{"_id": postID}
	update := bson.M{
		"$inc": bson.M{
			"likes":   likesDelta,
			"reports": reportsDelta,
		},
	}

	result, err := m.Posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewPostNotFoundError(postID)
	}
	return nil
}

// UpdatePostContent replaces a post's content and stamps editedAt.
func (m *MongoDB) UpdatePostContent(ctx context.Context, postID, content string, editedAt time.Time) error {
	filter := bson.M{"_id": postID}
	update := bson.M{
		"$set": bson.M{
			"content":  content,
			"editedat": editedAt,
		},
	}

	result, err := m.Posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewPostNotFoundError(postID)
	}
	return nil
}

// DeletePost removes a single post.
func (m *MongoDB) DeletePost(ctx context.Context, postID string) error {
	result, err := m.Posts.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewPostNotFoundError(postID)
	}
	return nil
}

// CountPosts returns the total number of posts.
func (m *MongoDB) CountPosts(ctx context.Context) (int64, error) {
	return m.Posts.CountDocuments(ctx, bson.M{})
}

func decodePosts(ctx context.Context, cursor *mongo.Cursor) ([]*models.Post, error) {
	posts := make([]*models.Post, 0)
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding post document: %v", err)
			continue
		}
		posts = append(posts, documentToPost(&doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}
	return posts, nil
}
