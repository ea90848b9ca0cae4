package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/hive"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/postscache"
	"github.com/joho/godotenv"

	"github.com/hivebuzz/hivebuzz/internal/domain/contract"
	handlerHttp "github.com/hivebuzz/hivebuzz/internal/handler/http"
	redisclient "github.com/hivebuzz/hivebuzz/internal/infrastructure/cache"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/config"
	database "github.com/hivebuzz/hivebuzz/internal/infrastructure/database"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/jwt"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/logger"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/repository/mongodb"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/store"
	"github.com/hivebuzz/hivebuzz/internal/infrastructure/uuidgen"
	"github.com/hivebuzz/hivebuzz/internal/usecase"
)

const shutdownGrace = 10 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Get MongoDB URI and DB name from environment
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable not set")
	}
	dbName := os.Getenv("MONGODB_DB_NAME")
	if dbName == "" {
		log.Fatal("MONGODB_DB_NAME environment variable not set")
	}

	// Establish MongoDB connection
	mongoClient, err := database.NewMongoDBClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect()

	appLogger := logger.NewStdLogger()
	appConfig := config.NewConfig()

	// Dependency Injection: Repositories
	db := mongoClient.Client.Database(dbName)
	userRepo := mongodb.NewMongoUserRepository(db.Collection("users"))
	sessionRepo := mongodb.NewSessionRepository(db.Collection("sessions"))
	activityRepo := mongodb.NewActivityRepository(db.Collection("activity"))

	// Dependency Injection: Services
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}
	jwtManager := jwt.NewJWTManager(jwtSecret, appConfig.GetSessionExpiry())
	jwtService := jwt.NewJWTService(jwtManager)
	uuidGenerator := uuidgen.NewGenerator()

	// Optional Dependency Injection: Redis session cache
	var sessionCache contract.ISessionCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		rdb := redisclient.NewRedisFromURL(context.Background(), redisURL)
		if rdb != nil {
			defer redisclient.Close(rdb)
			sessionCache = store.NewSessionCacheStore(rdb)
		}
	}

	// Posts cache: background refresh from the blockchain API
	hiveClient := hive.NewClient(appConfig.GetHiveAPIURL(), appLogger)
	postsCache, err := postscache.New(hiveClient, appLogger, postscache.Options{
		RefreshInterval: appConfig.GetFeedRefreshInterval(),
		CacheDir:        appConfig.GetFeedCacheDir(),
		CacheSize:       appConfig.GetFeedCacheSize(),
		PriorityFeeds:   appConfig.GetPriorityFeeds(),
		MaxSnapshotAge:  appConfig.GetMaxSnapshotAge(),
		TagEvictionAge:  appConfig.GetTagFeedEvictionAge(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize posts cache: %v", err)
	}
	postsCache.Start(context.Background())

	// Dependency Injection: Usecases
	feedUsecase := usecase.NewFeedUseCase(postsCache, activityRepo, appLogger)
	userUsecase := usecase.NewUserUsecase(userRepo, sessionRepo, sessionCache, activityRepo, jwtService, uuidGenerator, appConfig, appLogger)

	// Initialize Gin router
	router := gin.Default()

	appRouter := handlerHttp.NewRouter(feedUsecase, userUsecase)
	appRouter.SetupRoutes(router)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Server running on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Block until interrupted, then drain requests and flush snapshots
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	postsCache.Stop(shutdownGrace)
}
