package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hadir-app/hadir-backend/internal/config"
	"github.com/hadir-app/hadir-backend/internal/domain/notification"
	"github.com/hadir-app/hadir-backend/internal/domain/setting"
	appHTTP "github.com/hadir-app/hadir-backend/internal/handler/http"
	"github.com/hadir-app/hadir-backend/internal/pkg/cron"
	"github.com/hadir-app/hadir-backend/internal/pkg/database"
	"github.com/hadir-app/hadir-backend/internal/pkg/email"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
	"github.com/hadir-app/hadir-backend/internal/pkg/oauth"
	"github.com/hadir-app/hadir-backend/internal/pkg/sse"
	"github.com/hadir-app/hadir-backend/internal/pkg/storage"
	"github.com/hadir-app/hadir-backend/internal/repository/postgresql"
	redisrepo "github.com/hadir-app/hadir-backend/internal/repository/redis"
	attendanceService "github.com/hadir-app/hadir-backend/internal/service/attendance"
	serviceAuth "github.com/hadir-app/hadir-backend/internal/service/auth"
	divisionService "github.com/hadir-app/hadir-backend/internal/service/division"
	"github.com/hadir-app/hadir-backend/internal/service/file"
	leaveService "github.com/hadir-app/hadir-backend/internal/service/leave"
	logbookService "github.com/hadir-app/hadir-backend/internal/service/logbook"
	notificationService "github.com/hadir-app/hadir-backend/internal/service/notification"
	officeNetworkService "github.com/hadir-app/hadir-backend/internal/service/officenetwork"
	reportService "github.com/hadir-app/hadir-backend/internal/service/report"
	settingService "github.com/hadir-app/hadir-backend/internal/service/setting"
	userService "github.com/hadir-app/hadir-backend/internal/service/user"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("Error applying schema", "error", err)
		os.Exit(1)
	}

	// Settings are read straight from PostgreSQL when Redis is not configured
	var settingCache setting.SettingCache
	if cfg.Redis.Addr != "" {
		redisClient, err := redisrepo.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Error("Error connecting to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		settingCache = redisrepo.NewSettingCache(redisClient, cfg.Redis.SettingsTTL)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		slog.Error("Failed to initialize local storage", "error", err)
		os.Exit(1)
	}

	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	divisionRepo := postgresql.NewDivisionRepository(db)
	officeNetworkRepo := postgresql.NewOfficeNetworkRepository(db)
	settingRepo := postgresql.NewSettingRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	logbookRepo := postgresql.NewLogbookRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.IsProduction())

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	var mailer notification.Mailer
	if cfg.SMTP.Host != "" {
		m, err := email.NewMailer(cfg.SMTP, cfg.App.FrontendURL)
		if err != nil {
			slog.Error("Failed to initialize mailer", "error", err)
			os.Exit(1)
		}
		mailer = m
	}

	hub := sse.NewHub()
	notifService := notificationService.NewNotificationService(notificationRepo, hub, mailer, notificationService.Config{})
	defer notifService.Stop()

	fileService := file.NewFileService(fileStorage)
	settingSvc := settingService.NewSettingService(settingRepo, settingCache)
	authSvc := serviceAuth.NewAuthService(userRepo, refreshTokenRepo, JWTService, fileStorage)
	userSvc := userService.NewUserService(userRepo, refreshTokenRepo, fileService, fileStorage)
	divisionSvc := divisionService.NewDivisionService(divisionRepo, userRepo, fileStorage)
	officeNetworkSvc := officeNetworkService.NewOfficeNetworkService(officeNetworkRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		userRepo,
		officeNetworkRepo,
		settingSvc,
		fileService,
		fileStorage,
	)
	leaveSvc := leaveService.NewLeaveService(
		leaveRepo,
		userRepo,
		settingSvc,
		fileService,
		fileStorage,
		notifService,
	)
	logbookSvc := logbookService.NewLogbookService(logbookRepo, userRepo, settingSvc, notifService)
	reportSvc := reportService.NewReportService(reportRepo)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:            cfg.App.Env,
			Version:        version,
			LogLevel:       cfg.App.SlogLevel(),
			AllowedOrigins: cfg.App.CORSOrigins,
			UploadsPrefix:  "/uploads",
			TrustedProxies: cfg.App.TrustedProxies,
		},
		JWTService,
		appHTTP.Handlers{
			Auth:         appHTTP.NewAuthHandler(JWTService, authSvc, googleService, cfg.App.FrontendURL, cfg.App.IsProduction()),
			User:         appHTTP.NewUserHandler(userSvc),
			Master:       appHTTP.NewMasterHandler(divisionSvc, officeNetworkSvc, settingSvc),
			Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
			Leave:        appHTTP.NewLeaveHandler(leaveSvc),
			Logbook:      appHTTP.NewLogbookHandler(logbookSvc),
			Report:       appHTTP.NewReportHandler(reportSvc),
			Notification: appHTTP.NewNotificationHandler(notifService, JWTService),
			File:         appHTTP.NewFileHandler(fileStorage),
		},
	)

	if cfg.Cron.Enabled {
		loc := time.Local
		if current, err := settingSvc.Current(ctx); err != nil {
			slog.Warn("Falling back to local timezone for cron", "error", err)
		} else {
			loc = current.Location()
		}

		scheduler := cron.NewScheduler(loc)
		if err := cron.NewAttendanceJobs(attendanceSvc).RegisterJobs(scheduler, cfg.Cron.AbsenceSpec); err != nil {
			slog.Error("Failed to register cron jobs", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
