package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mindgrove/config"
	"mindgrove/models"
	"mindgrove/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// CognitoProvider implements AuthProvider against an AWS Cognito user
// pool. It tracks the single active session for this application
// instance and notifies subscribers on sign-in and sign-out.
type CognitoProvider struct {
	client       *cognitoidentityprovider.Client
	clientID     string
	clientSecret string

	mu        sync.Mutex
	session   *models.Session
	handlers  map[int]AuthStateHandler
	handlerID int
}

var _ AuthProvider = (*CognitoProvider)(nil)

// NewCognitoProvider builds the Cognito client for the configured region.
func NewCognitoProvider(cfg *config.Config) (*CognitoProvider, error) {
	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), awsConfig.WithRegion(cfg.Cognito.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &CognitoProvider{
		client:       cognitoidentityprovider.NewFromConfig(awsCfg),
		clientID:     cfg.Cognito.AppClientId,
		clientSecret: cfg.Cognito.AppClientSecret,
		handlers:     map[int]AuthStateHandler{},
	}, nil
}

// GetSession returns the current session, or nil when signed out or the
// access token has expired.
func (p *CognitoProvider) GetSession(ctx context.Context) (*models.Session, error) {
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

// SignUp registers the user with email, password and a name attribute.
func (p *CognitoProvider) SignUp(ctx context.Context, email, password, name string) (*models.AuthUser, error) {
	secretHash := utils.GenerateSecretHash(email, p.clientID, p.clientSecret)

	input := cognitoidentityprovider.SignUpInput{
		ClientId:   aws.String(p.clientID),
		Password:   aws.String(password),
		SecretHash: aws.String(secretHash),
		Username:   aws.String(email),
		UserAttributes: []types.AttributeType{
			{
				Name:  aws.String("email"),
				Value: aws.String(email),
			},
			{
				Name:  aws.String("name"),
				Value: aws.String(name),
			},
		},
	}

	output, err := p.client.SignUp(ctx, &input)
	if err != nil {
		return nil, fmt.Errorf("sign-up failed: %w", err)
	}

	user := &models.AuthUser{Email: email, Name: name}
	if output.UserSub != nil {
		user.ID = *output.UserSub
	}
	return user, nil
}

// SignInWithPassword runs the USER_PASSWORD_AUTH flow and adopts the
// resulting session.
func (p *CognitoProvider) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	secretHash := utils.GenerateSecretHash(email, p.clientID, p.clientSecret)

	authInput := cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(p.clientID),
		AuthParameters: map[string]string{
			"USERNAME":    email,
			"PASSWORD":    password,
			"SECRET_HASH": secretHash,
		},
	}

	authOutput, err := p.client.InitiateAuth(ctx, &authInput)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if authOutput.AuthenticationResult == nil || authOutput.AuthenticationResult.AccessToken == nil {
		return nil, fmt.Errorf("authentication failed: no access token returned")
	}

	token := *authOutput.AuthenticationResult.AccessToken
	user, err := p.UserFromToken(ctx, token)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		User:        *user,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(time.Duration(authOutput.AuthenticationResult.ExpiresIn) * time.Second),
	}

	p.mu.Lock()
	p.session = session
	handlers := p.snapshotHandlers()
	p.mu.Unlock()

	notify(handlers, "SIGNED_IN", session)
	return session, nil
}

// SignOut revokes the session's tokens and clears the current session.
func (p *CognitoProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	session := p.session
	p.mu.Unlock()

	if session != nil {
		_, err := p.client.GlobalSignOut(ctx, &cognitoidentityprovider.GlobalSignOutInput{
			AccessToken: aws.String(session.AccessToken),
		})
		if err != nil {
			return fmt.Errorf("sign-out failed: %w", err)
		}
	}

	p.mu.Lock()
	p.session = nil
	handlers := p.snapshotHandlers()
	p.mu.Unlock()

	notify(handlers, "SIGNED_OUT", nil)
	return nil
}

// OnAuthStateChange registers a handler for sign-in/sign-out events.
func (p *CognitoProvider) OnAuthStateChange(handler AuthStateHandler) func() {
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

// UserFromToken resolves an access token to its identity via GetUser.
// Used by SignInWithPassword and the auth middleware.
func (p *CognitoProvider) UserFromToken(ctx context.Context, token string) (*models.AuthUser, error) {
	output, err := p.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(token),
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	user := &models.AuthUser{}
	for _, attr := range output.UserAttributes {
		if attr.Name == nil || attr.Value == nil {
			continue
		}
		switch *attr.Name {
		case "sub":
			user.ID = *attr.Value
		case "email":
			user.Email = *attr.Value
		case "name", "nickname":
			if user.Name == "" {
				user.Name = *attr.Value
			}
		}
	}
	if user.ID == "" && output.Username != nil {
		user.ID = *output.Username
	}
	return user, nil
}

func (p *CognitoProvider) snapshotHandlers() []AuthStateHandler {
	handlers := make([]AuthStateHandler, 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	return handlers
}

func notify(handlers []AuthStateHandler, event string, session *models.Session) {
	for _, handler := range handlers {
		handler(event, session)
	}
}
