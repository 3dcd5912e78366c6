// internal/database/volunteer_repository.go
package database

import (
	"context"
	"fmt"
	"log"
	"regexp"

	"relawan-hub/internal/models"
	"relawan-hub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VolunteerFilter narrows the directory listing. Empty fields match everything.
type VolunteerFilter struct {
	Province string
	City     string
	Query    string // substring over name, experience and specialization
}

// SeedVolunteers upserts directory entries by id. The directory is read-only
// reference data; seeding at startup is the only write path.
func (m *MongoDB) SeedVolunteers(ctx context.Context, volunteers []models.Volunteer) error {
	for i := range volunteers {
		v := &volunteers[i]
		opts := options.Update().SetUpsert(true)
		filter := bson.M{"_id": v.ID}
		update := bson.M{"$set": v}

		if _, err := m.Volunteers.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("failed to seed volunteer %s: %v", v.ID, err)
		}
	}

	log.Printf("Seeded %d volunteers", len(volunteers))
	return nil
}

// GetVolunteer retrieves a directory entry by its ID.
func (m *MongoDB) GetVolunteer(ctx context.Context, id string) (*models.Volunteer, error) {
	var v models.Volunteer

	err := m.Volunteers.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Volunteer not found: "+id, nil)
	}
	if err != nil {
		return nil, err
	}

	return &v, nil
}

// ListVolunteers returns directory entries matching the filter, sorted by name.
func (m *MongoDB) ListVolunteers(ctx context.Context, filter VolunteerFilter) ([]*models.Volunteer, error) {
	query := bson.M{}
	if filter.Province != "" {
		query["province"] = filter.Province
	}
	if filter.City != "" {
		query["city"] = filter.City
	}
	if filter.Query != "" {
		pattern := regexp.QuoteMeta(filter.Query)
		regex := bson.M{"$regex": pattern, "$options": "i"}
		query["$or"] = []bson.M{
			{"name": regex},
			{"experience": regex},
			{"specialization": regex},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := m.Volunteers.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %v", err)
	}
	defer cursor.Close(ctx)

	volunteers := make([]*models.Volunteer, 0)
	for cursor.Next(ctx) {
		var v models.Volunteer
		if err := cursor.Decode(&v); err != nil {
			log.Printf("Error decoding volunteer document: %v", err)
			continue
		}
		volunteers = append(volunteers, &v)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}
	return volunteers, nil
}
