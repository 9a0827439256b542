package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mindgrove/models"
	"mindgrove/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// localUser is the credential record kept in the users collection when
// running without Cognito.
type localUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
}

// LocalAuthProvider implements AuthProvider with bcrypt credentials in
// MongoDB and locally minted HS256 session tokens. Used for development
// and self-hosted deployments where no Cognito pool is configured.
type LocalAuthProvider struct {
	users *mongo.Collection

	mu        sync.Mutex
	session   *models.Session
	handlers  map[int]AuthStateHandler
	handlerID int
}

var _ AuthProvider = (*LocalAuthProvider)(nil)
var _ TokenValidator = (*LocalAuthProvider)(nil)

func NewLocalAuthProvider(users *mongo.Collection) *LocalAuthProvider {
	return &LocalAuthProvider{
		users:    users,
		handlers: map[int]AuthStateHandler{},
	}
}

func (p *LocalAuthProvider) GetSession(ctx context.Context) (*models.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil {
		return nil, nil
	}
	if !p.session.ExpiresAt.IsZero() && time.Now().After(p.session.ExpiresAt) {
		p.session = nil
		return nil, nil
	}
	session := *p.session
	return &session, nil
}

func (p *LocalAuthProvider) SignUp(ctx context.Context, email, password, name string) (*models.AuthUser, error) {
	count, err := p.users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("sign-up failed: %w", err)
	}
	if count > 0 {
		return nil, errors.New("an account with this email already exists")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("sign-up failed: %w", err)
	}

	user := localUser{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if _, err := p.users.InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("sign-up failed: %w", err)
	}

	return &models.AuthUser{ID: user.ID.Hex(), Email: email, Name: name}, nil
}

func (p *LocalAuthProvider) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	var user localUser
	err := p.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, errors.New("invalid email or password")
	}

	token, err := utils.GenerateJWTToken(user.ID.Hex(), user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	session := &models.Session{
		User:        models.AuthUser{ID: user.ID.Hex(), Email: user.Email, Name: user.Name},
		AccessToken: token,
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}

	p.mu.Lock()
	p.session = session
	handlers := p.snapshotHandlers()
	p.mu.Unlock()

	notify(handlers, "SIGNED_IN", session)
	return session, nil
}

func (p *LocalAuthProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.session = nil
	handlers := p.snapshotHandlers()
	p.mu.Unlock()

	notify(handlers, "SIGNED_OUT", nil)
	return nil
}

func (p *LocalAuthProvider) OnAuthStateChange(handler AuthStateHandler) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.handlerID++
	id := p.handlerID
	p.handlers[id] = handler

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers, id)
	}
}

// UserFromToken validates a locally minted session token.
func (p *LocalAuthProvider) UserFromToken(ctx context.Context, token string) (*models.AuthUser, error) {
	claims, err := utils.ParseJWTToken(token)
	if err != nil {
		return nil, err
	}
	return &models.AuthUser{ID: claims.UserID, Email: claims.Email, Name: claims.Name}, nil
}

func (p *LocalAuthProvider) snapshotHandlers() []AuthStateHandler {
	handlers := make([]AuthStateHandler, 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	return handlers
}
