package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"hangoutspots/config"
	"hangoutspots/controllers"
	"hangoutspots/db"
	"hangoutspots/jobs"
	"hangoutspots/routes"
	"hangoutspots/services"
	"hangoutspots/utils"
	"hangoutspots/websocket"
)

func main() {
	configPath := flag.String("config", "./config/config.yml", "path to the config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer utils.Logger.Sync()

	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		utils.Sugar.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	utils.Sugar.Info("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctx); err != nil {
		cancel()
		utils.Sugar.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	if err := db.ConnectRedis(cfg); err != nil {
		// The leaderboard cache degrades to direct Mongo queries without it.
		utils.Sugar.Warnf("Redis unavailable: %v", err)
	} else {
		utils.Sugar.Info("Connected to Redis")
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, os.ModePerm); err != nil {
		utils.Sugar.Fatalf("Failed to create uploads dir: %v", err)
	}

	// Wire the rule engines over the Mongo stores.
	geocoder := utils.NewGeocoder(cfg)
	gamificationService := services.NewGamificationService(
		db.NewUserStore(),
		db.NewAchievementStore(),
		db.NewActivityStore(),
		websocket.BroadcastGamificationEvent,
		utils.Sugar,
	)
	checkinService := services.NewCheckinService(
		db.NewBusinessStore(),
		db.NewCheckinStore(),
		db.NewCooldownStore(),
		gamificationService,
		utils.Sugar,
	)
	reviewService := services.NewReviewService(
		db.NewUserStore(),
		db.NewBusinessStore(),
		db.NewReviewStore(),
		db.NewMediaStore(),
		db.NewSubscriptionStore(),
		db.NewCooldownStore(),
		gamificationService,
		geocoder.GetCoordinatesFromAddress,
		utils.Sugar,
	)
	controllers.Init(cfg, geocoder, gamificationService, checkinService, reviewService)

	scheduler := jobs.Start()

	router := routes.SetupRouter(cfg)
	server := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: router,
	}

	go func() {
		utils.Sugar.Infof("Server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Sugar.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Sugar.Info("Shutting down")

	scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.Sugar.Errorf("Server shutdown error: %v", err)
	}
	if err := db.Disconnect(shutdownCtx); err != nil {
		utils.Sugar.Errorf("MongoDB disconnect error: %v", err)
	}
}
