package db

import (
	"context"
	"errors"

	"mindgrove/models"
	"mindgrove/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profilesCollection = "profiles"

// ProfileStore persists profiles in the profiles collection, keyed by
// the auth provider's user id.
type ProfileStore struct{}

var _ services.ProfileStore = (*ProfileStore)(nil)

func NewProfileStore() *ProfileStore {
	return &ProfileStore{}
}

// GetProfile loads a single profile row. A missing row maps to
// services.ErrProfileNotFound; the caller decides whether that is fatal.
func (s *ProfileStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := GetCollection(profilesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile writes the full profile record, inserting when absent.
func (s *ProfileStore) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	opts := options.Replace().SetUpsert(true)
	_, err := GetCollection(profilesCollection).ReplaceOne(ctx, bson.M{"_id": profile.ID}, profile, opts)
	return err
}

// UpdateProfile applies a partial update; nil fields are left untouched.
func (s *ProfileStore) UpdateProfile(ctx context.Context, id string, update services.ProfileUpdate) error {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Goals != nil {
		set["goals"] = *update.Goals
	}
	if len(set) == 0 {
		return nil
	}

	_, err := GetCollection(profilesCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// UpdateStats replaces the embedded stats record.
func (s *ProfileStore) UpdateStats(ctx context.Context, id string, stats models.Stats) error {
	_, err := GetCollection(profilesCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"stats": stats}})
	return err
}

// UpdateAchievements replaces the achievements list.
func (s *ProfileStore) UpdateAchievements(ctx context.Context, id string, achievements []string) error {
	_, err := GetCollection(profilesCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"achievements": achievements}})
	return err
}
