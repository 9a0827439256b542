package services

import (
	"context"

	"mindgrove/models"
)

// ProfileUpdate is a partial profile mutation. Nil fields are left
// untouched by the store.
type ProfileUpdate struct {
	Name  *string
	Bio   *string
	Goals *[]string
}

// ProfileStore is the tabular-store surface the session manager depends
// on. The Mongo implementation lives in the db package.
type ProfileStore interface {
	// GetProfile returns ErrProfileNotFound when no row exists.
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
	UpdateStats(ctx context.Context, id string, stats models.Stats) error
	UpdateAchievements(ctx context.Context, id string, achievements []string) error
}

// JournalStore is the journal_entries surface consumed by controllers.
type JournalStore interface {
	ListEntries(ctx context.Context, userID string) ([]models.JournalEntry, error)
	InsertEntry(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error)
	DeleteEntries(ctx context.Context, userID string, ids []string) (int64, error)
	DeleteAllEntries(ctx context.Context, userID string) (int64, error)
}

// AuthStateHandler receives session-change notifications. A nil session
// means the user signed out.
type AuthStateHandler func(event string, session *models.Session)

// AuthProvider is the managed identity backend: session-based auth with
// change notifications. The Cognito implementation lives in cognito.go.
type AuthProvider interface {
	GetSession(ctx context.Context) (*models.Session, error)
	SignUp(ctx context.Context, email, password, name string) (*models.AuthUser, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context) error
	// OnAuthStateChange registers a handler and returns an unsubscribe func.
	OnAuthStateChange(handler AuthStateHandler) func()
}

// TokenValidator resolves a bearer token to its identity. Both auth
// providers implement it; the auth middleware depends on nothing else.
type TokenValidator interface {
	UserFromToken(ctx context.Context, token string) (*models.AuthUser, error)
}
