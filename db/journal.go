package db

import (
	"context"
	"time"

	"mindgrove/models"
	"mindgrove/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const journalCollection = "journal_entries"

// JournalStore persists journal entries. Entries are only ever queried
// and deleted scoped by their owning user.
type JournalStore struct{}

var _ services.JournalStore = (*JournalStore)(nil)

func NewJournalStore() *JournalStore {
	return &JournalStore{}
}

// ListEntries returns all entries for a user, newest first.
func (s *JournalStore) ListEntries(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := GetCollection(journalCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.JournalEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// InsertEntry saves a new entry and returns it with the assigned id.
func (s *JournalStore) InsertEntry(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if _, err := GetCollection(journalCollection).InsertOne(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntries removes the given entries, ignoring ids that do not
// parse or belong to another user.
func (s *JournalStore) DeleteEntries(ctx context.Context, userID string, ids []string) (int64, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, oid)
	}
	if len(objectIDs) == 0 {
		return 0, nil
	}

	filter := bson.M{"user_id": userID, "_id": bson.M{"$in": objectIDs}}
	result, err := GetCollection(journalCollection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteAllEntries removes every entry owned by the user.
func (s *JournalStore) DeleteAllEntries(ctx context.Context, userID string) (int64, error) {
	result, err := GetCollection(journalCollection).DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
