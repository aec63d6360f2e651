package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"anoa.com/dispatchhub/internal/config"
	"anoa.com/dispatchhub/internal/model"
	"anoa.com/dispatchhub/internal/modules/monitor"
	"anoa.com/dispatchhub/internal/scheduler"
	"anoa.com/dispatchhub/internal/scheduler/jobs"
	"anoa.com/dispatchhub/internal/server"
	"anoa.com/dispatchhub/pkg/database"
	"anoa.com/dispatchhub/pkg/logger"
	"anoa.com/dispatchhub/pkg/validator"

	workRepo "anoa.com/dispatchhub/internal/modules/work/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	appLog := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(appLog)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(database.Config{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
	})
	if err != nil {
		appLog.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := migrate(db); err != nil {
		appLog.Fatal().Err(err).Msg("migration failed")
	}

	if cfg.AppEnv == "development" {
		if err := seedContractor(db); err != nil {
			appLog.Fatal().Err(err).Msg("failed to seed contractor")
		}
	}

	validator.RegisterCustomRules()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			appLog.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			appLog.Warn().Err(err).Msg("redis unreachable, notice broadcast disabled")
			redisClient = nil
		}
	}

	var sender monitor.Sender = monitor.NewNoopSender()
	if cfg.AlertWebhookURL != "" {
		sender = monitor.NewWebhookSender(cfg.AlertWebhookURL)
	}
	mon := monitor.New(monitor.NewSystemSampler(), sender, appLog)

	sched := scheduler.New(appLog)
	works := workRepo.NewWorkRepository(db)
	if err := sched.Register(jobs.BookingActivationSpec, jobs.NewBookingActivationJob(works, appLog)); err != nil {
		appLog.Fatal().Err(err).Msg("failed to register booking activation job")
	}
	if err := sched.Register(jobs.HealthCheckSpec, jobs.NewHealthCheckJob(mon)); err != nil {
		appLog.Fatal().Err(err).Msg("failed to register health check job")
	}
	sched.Start()
	defer sched.Stop()

	if cfg.AppEnv == "production" {
		hostname, _ := os.Hostname()
		mon.Notify(context.Background(), fmt.Sprintf("[%s] dispatchhub server started at %s",
			hostname, time.Now().Format(time.RFC3339)))
	}

	srv := server.NewServer(db, redisClient, cfg, mon)
	appLog.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server listening")
	if err := srv.Run(":" + cfg.Port); err != nil {
		appLog.Fatal().Err(err).Msg("server exited with error")
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.UserInfo{},
		&model.Work{},
		&model.Notice{},
		&model.NoticeConfirmation{},
	)
}

// seedContractor creates a development login so the API is usable on a
// fresh database.
func seedContractor(db *gorm.DB) error {
	const phoneNumber = "01000000000"

	var count int64
	if err := db.Model(&model.User{}).
		Where("phone_number = ?", phoneNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	contractor := model.User{
		Role:         model.RoleContractor,
		PhoneNumber:  phoneNumber,
		PasswordHash: string(hash),
	}
	if err := db.Create(&contractor).Error; err != nil {
		return err
	}

	log.Printf("seeded contractor %s (password: admin123)", phoneNumber)
	return nil
}
