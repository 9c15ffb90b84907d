package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rssebastian/maze-game/api"
	gameapi "github.com/rssebastian/maze-game/api/game"
	api_i "github.com/rssebastian/maze-game/api/i"
	"github.com/rssebastian/maze-game/api/identity"
	"github.com/rssebastian/maze-game/config"
	"github.com/rssebastian/maze-game/game"
	logger "github.com/rssebastian/maze-game/infrastruture/log"
	"github.com/rssebastian/maze-game/infrastruture/repo"
	"github.com/rssebastian/maze-game/infrastruture/sessionstore"
	"github.com/rssebastian/maze-game/infrastruture/token"
	"github.com/rssebastian/maze-game/infrastruture/ws"
	"github.com/rssebastian/maze-game/service"
	"github.com/rssebastian/maze-game/service/i"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	redisClient        *redis.Client
	mongoClient        *mongo.Client
	sessionStore       i.SessionStore
	resultRepo         i.ResultRepo
	jwtTokenizer       i.Tokenizer
	hub                *ws.Hub
	gameSessionManager *service.GameSessionManager
	sessionController  api_i.Controller
	router             *api.Router
	appLogger          i.Logger
)

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
		DB:       config.Envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initSessionStore() {
	var err error
	sessionStore, err = sessionstore.NewRedisSessionStore(redisClient, "maze", config.Envs.SessionTTLSeconds)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session store: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Session store initialized")
}

func initResultRepo(client *mongo.Client) {
	resultRepo = repo.NewResultRepo(client, config.Envs.DBName, "results")
	appLogger.Info("Result repository initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initHub() {
	hub = ws.NewHub()
	appLogger.Info("Websocket hub initialized")
}

func initSessionManager() {
	sessionLogger, err := logger.New("SESSION-MANAGER", logger.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager logger: %v", err))
		os.Exit(1)
	}

	gameSessionManager, err = service.NewGameSessionManager(&service.Config{
		Store:     sessionStore,
		Results:   resultRepo,
		Notifier:  hub,
		Tokenizer: jwtTokenizer,
		Logger:    sessionLogger,
		Layout: game.LayoutOptions{
			UnitWidth:  float64(config.Envs.UnitWidth),
			UnitHeight: float64(config.Envs.UnitHeight),
		},
		MaxDimension: config.Envs.MaxMazeDimension,
		GameDuration: time.Duration(config.Envs.GameDurationSeconds) * time.Second,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager: %v", err))
		os.Exit(1)
	}

	appLogger.Info("Session manager initialized")
}

func initSessionController() {
	var err error
	sessionController, err = gameapi.NewSessionController(gameSessionManager, hub)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Session controller initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{sessionController},
		AuthorizationMiddleware: identity.Authoriz(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	appLogger, _ = logger.New("APP", logger.ColorGreen, os.Stdout)
	gin.SetMode(config.Envs.GinMode)

	initRedis(ctx)
	defer redisClient.Close()

	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	initSessionStore()
	initResultRepo(mongoClient)
	initJWTTokenizer()
	initHub()
	initSessionManager()
	initSessionController()
	initRouter(jwtTokenizer)

	// Record results of running sessions before exiting.
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-sigCtx.Done()
		appLogger.Info("Shutting down, stopping live sessions")
		gameSessionManager.StopAll()
		os.Exit(0)
	}()

	if err := router.Run(); err != nil {
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		gameSessionManager.StopAll()
		os.Exit(1)
	}
}
