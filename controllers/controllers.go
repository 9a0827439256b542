package controllers

import (
	"mindgrove/internal/ratelimit"
	"mindgrove/services"

	"github.com/sirupsen/logrus"
)

// Package-level collaborators, wired once from main before the router
// starts serving.
var (
	sessions  *services.SessionManager
	profiles  services.ProfileStore
	journal   services.JournalStore
	analyzer  services.EmotionAnalyzer
	companion services.Chatbot
	validator services.TokenValidator
	limiter   *ratelimit.RateLimiter
	limits    ratelimit.RateLimitConfig
	log       *logrus.Logger
)

// Deps bundles everything the handlers need.
type Deps struct {
	Sessions  *services.SessionManager
	Profiles  services.ProfileStore
	Journal   services.JournalStore
	Analyzer  services.EmotionAnalyzer
	Companion services.Chatbot
	Validator services.TokenValidator
	Limiter   *ratelimit.RateLimiter
	Limits    ratelimit.RateLimitConfig
	Logger    *logrus.Logger
}

// Init installs the handler dependencies.
func Init(deps Deps) {
	sessions = deps.Sessions
	profiles = deps.Profiles
	journal = deps.Journal
	analyzer = deps.Analyzer
	companion = deps.Companion
	validator = deps.Validator
	limiter = deps.Limiter
	limits = deps.Limits
	log = deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
}
