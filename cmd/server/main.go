package main

import (
	"log"

	"github.com/facefinder/facefinder-backend/internal/config"
	"github.com/facefinder/facefinder-backend/internal/server"
	"github.com/facefinder/facefinder-backend/pkg/db/aws"
	"github.com/facefinder/facefinder-backend/pkg/db/postgres"
	"github.com/facefinder/facefinder-backend/pkg/db/redis"
	"github.com/facefinder/facefinder-backend/pkg/logger"
)

func main() {
	log.Println("Starting server")
	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	psqlDB, err := postgres.NewPsqlDB(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to db: %s", err)
	}
	appLogger.Infof("db connected, status: %#v", psqlDB.Stats())
	defer psqlDB.Close()

	if cfg.Postgres.MigrationsDir != "" {
		if err = postgres.RunMigrations(cfg, cfg.Postgres.MigrationsDir); err != nil {
			appLogger.Fatalf("could not run migrations: %s", err)
		}
		appLogger.Infof("migrations applied")
	}

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	appLogger.Infof("redis connected")
	defer redisClient.Close()

	s3Client, err := aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		appLogger.Fatalf("could not connect to s3: %s", err)
	}

	s := server.NewServer(cfg, psqlDB, redisClient, s3Client, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Fatalf("could not start server: %s", err)
	}
}
