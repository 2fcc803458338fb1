package main

import (
	"context"
	"os"

	"github.com/homeservices/booking-api/config"
	"github.com/homeservices/booking-api/routes"
	"github.com/homeservices/booking-api/services"
	"github.com/homeservices/booking-api/utils"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

func main() {
	seedFile := flag.String("seed", "", "YAML file with services, locations and an admin user to insert")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations (and --seed) then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	utils.InitLogger(cfg.LogLevel, cfg.IsProduction())
	logrus.WithField("env", cfg.GoEnv).Info("Starting Home Services API server...")

	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db := config.GetDB()
	if err := config.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("Failed to migrate database")
	}
	logrus.Info("Database migration completed successfully")

	if *seedFile != "" {
		seed, err := services.LoadSeedFile(*seedFile)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to load seed file")
		}
		if _, err := services.ApplySeed(context.Background(), db, seed); err != nil {
			logrus.WithError(err).Fatal("Failed to apply seed")
		}
	}
	if *migrateOnly {
		os.Exit(0)
	}

	if cfg.ImagesEnabled() {
		store, err := services.NewS3Store(context.Background(), cfg)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize S3")
		}
		services.InitImageService(store)
		logrus.WithField("bucket", cfg.AWSS3Bucket).Info("Image storage enabled")
	} else {
		logrus.Warn("AWS_S3_BUCKET not set, image uploads are disabled")
	}

	if cfg.PaymentsEnabled() {
		services.InitPaymentGateway(cfg)
		logrus.Info("Payments enabled")
	}

	router := routes.SetupRouter(cfg)

	addr := ":" + cfg.Port
	logrus.WithField("addr", addr).Info("Server is running")
	if err := router.Run(addr); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}
