package main

import (
	"context"
	"os"
	"strconv"

	"mindgrove/config"
	"mindgrove/controllers"
	"mindgrove/db"
	"mindgrove/internal/ratelimit"
	"mindgrove/middlewares"
	"mindgrove/routes"
	"mindgrove/services"
	"mindgrove/utils"
	"mindgrove/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Info("Loaded environment from .env")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Info("Connected to MongoDB")

	if cfg.Redis.Addr != "" {
		if err := ratelimit.InitRedis(cfg.Redis.Addr, os.Getenv("REDIS_PASSWORD"), 0); err != nil {
			log.WithError(err).Warn("Redis unavailable, rate limiting disabled")
		} else {
			log.Info("Connected to Redis")
		}
	}

	ctx := context.Background()

	auth, validator := buildAuthProvider(cfg, log)
	analyzer, companion := buildAIServices(ctx, cfg, log)

	profileStore := db.NewProfileStore()
	journalStore := db.NewJournalStore()

	sessions := services.NewSessionManager(auth, profileStore, log)
	sessions.Start(ctx)
	defer sessions.Stop()

	controllers.Init(controllers.Deps{
		Sessions:  sessions,
		Profiles:  profileStore,
		Journal:   journalStore,
		Analyzer:  analyzer,
		Companion: companion,
		Validator: validator,
		Limiter:   ratelimit.NewRateLimiter(),
		Limits:    ratelimit.DefaultRateLimitConfig(),
		Logger:    log,
	})
	websocket.Init(validator, companion, log)

	router := setupRouter(cfg, validator)
	port := strconv.Itoa(cfg.Server.Port)
	log.Infof("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildAuthProvider picks Cognito when configured, otherwise the local
// JWT-based provider for self-hosted setups.
func buildAuthProvider(cfg *config.Config, log *logrus.Logger) (services.AuthProvider, services.TokenValidator) {
	if cfg.Cognito.AppClientId != "" {
		provider, err := services.NewCognitoProvider(cfg)
		if err != nil {
			log.Fatalf("Failed to init Cognito: %v", err)
		}
		log.Info("Using Cognito auth")
		return provider, provider
	}

	if cfg.JWT.Secret == "" {
		log.Fatal("Neither Cognito nor a JWT secret is configured")
	}
	utils.SetJWTSecret(cfg.JWT.Secret)
	provider := services.NewLocalAuthProvider(db.GetCollection("users"))
	log.Info("Using local auth")
	return provider, provider
}

// buildAIServices picks the analyzer and chat companion: a remote
// emotion service when configured, then Gemini, then the offline
// fallbacks.
func buildAIServices(ctx context.Context, cfg *config.Config, log *logrus.Logger) (services.EmotionAnalyzer, services.Chatbot) {
	if cfg.EmotionApi.BaseUrl != "" {
		client := services.NewEmotionClient(cfg.EmotionApi.BaseUrl)
		log.Infof("Using emotion API at %s", cfg.EmotionApi.BaseUrl)
		return client, client
	}

	if cfg.Gemini.ApiKey != "" {
		client, err := services.InitGemini(ctx, cfg.Gemini.ApiKey)
		if err != nil {
			log.Fatalf("Failed to init Gemini: %v", err)
		}
		log.Info("Using Gemini for analysis and chat")
		return services.NewGeminiAnalyzer(client, log), services.NewGeminiChatbot(client, log)
	}

	log.Warn("No AI backend configured, using offline analysis")
	return services.NewLexiconAnalyzer(), services.NewStaticChatbot()
}

func setupRouter(cfg *config.Config, validator services.TokenValidator) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	allowOrigins := cfg.Server.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes for authentication
	router.POST("/auth/signup", routes.SignUpRouteHandler)
	router.POST("/auth/login", routes.LoginRouteHandler)
	router.POST("/auth/logout", routes.LogoutRouteHandler)
	router.POST("/auth/verifyToken", routes.VerifyTokenRouteHandler)

	// Protected routes
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware(validator))
	{
		auth.GET("/user/profile", routes.GetProfileRouteHandler)
		auth.PUT("/user/profile", routes.UpdateProfileRouteHandler)

		auth.GET("/journal/entries", routes.ListEntriesRouteHandler)
		auth.POST("/journal/entries", routes.CreateEntryRouteHandler)
		auth.DELETE("/journal/entries", routes.DeleteEntriesRouteHandler)
		auth.DELETE("/journal/entries/all", routes.DeleteAllEntriesRouteHandler)

		auth.GET("/dashboard/mood-trend", routes.MoodTrendRouteHandler)
		auth.GET("/dashboard/insights", routes.InsightsRouteHandler)

		auth.POST("/chat", routes.ChatRouteHandler)
		auth.POST("/chat/reset", routes.ResetChatRouteHandler)
		auth.GET("/chat/wellness-tip", routes.WellnessTipRouteHandler)
	}

	// WebSocket companion chat authenticates via query token
	router.GET("/ws/chat", websocket.ChatHandler)

	return router
}
