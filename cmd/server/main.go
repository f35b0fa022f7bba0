package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"trustnest/internal/admin/guard"
	adminhandler "trustnest/internal/admin/handler"
	adminservice "trustnest/internal/admin/service"
	adminstore "trustnest/internal/admin/store"
	auditoutbox "trustnest/internal/audit/outbox"
	auditstore "trustnest/internal/audit/store"
	"trustnest/internal/document"
	"trustnest/internal/document/blob"
	documenthandler "trustnest/internal/document/handler"
	documentservice "trustnest/internal/document/service"
	documentstore "trustnest/internal/document/store"
	"trustnest/internal/jwttoken"
	matchinghandler "trustnest/internal/matching/handler"
	matchingservice "trustnest/internal/matching/service"
	matchingstore "trustnest/internal/matching/store"
	"trustnest/internal/platform/config"
	"trustnest/internal/platform/database"
	"trustnest/internal/platform/httpserver"
	"trustnest/internal/platform/logger"
	"trustnest/internal/platform/metrics"
	platformredis "trustnest/internal/platform/redis"
	profilehandler "trustnest/internal/profile/handler"
	profileservice "trustnest/internal/profile/service"
	profilestore "trustnest/internal/profile/store"
	httptransport "trustnest/internal/transport/http"
	verificationhandler "trustnest/internal/verification/handler"
	"trustnest/internal/verification/otplimit"
	verificationservice "trustnest/internal/verification/service"
	verificationstore "trustnest/internal/verification/store"
)

// main wires the stores, services, and handlers and runs the HTTP server
// alongside the audit outbox worker. Business logic lives in the internal
// feature packages; this file only chooses backends from configuration.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		profiles      profilestore.Store
		matches       matchingstore.Store
		verifications verificationstore.Store
		documents     documentstore.Store
		flags         adminstore.FlagStore
		moderation    adminstore.ModerationStore
		auditLog      auditstore.Store
	)

	var db *sql.DB
	if cfg.PostgresDSN != "" {
		var err error
		db, err = database.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}
	if db != nil {
		profiles = profilestore.NewPostgres(db)
		matches = matchingstore.NewPostgres(db)
		verifications = verificationstore.NewPostgres(db)
		documents = documentstore.NewPostgres(db)
		flags = adminstore.NewPostgresFlagStore(db)
		moderation = adminstore.NewPostgresModerationStore(db)
		auditLog = auditstore.NewPostgres(db)
	} else {
		log.Warn("postgres not configured, using in-memory stores")
		profiles = profilestore.NewInMemoryStore()
		matches = matchingstore.NewInMemoryStore()
		verifications = verificationstore.NewInMemoryStore()
		documents = documentstore.NewInMemoryStore()
		flags = adminstore.NewInMemoryFlagStore()
		moderation = adminstore.NewInMemoryModerationStore()
		auditLog = auditstore.NewInMemoryStore()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	var limiter otplimit.Limiter
	if redisClient != nil {
		limiter = otplimit.NewRedisLimiter(redisClient.Client, cfg.OTP.MaxAttempts, cfg.OTP.Window)
	} else {
		log.Warn("redis not configured, using in-memory rate limiter")
		limiter = otplimit.NewInMemoryLimiter(cfg.OTP.MaxAttempts, cfg.OTP.Window)
	}

	var blobs blob.Store
	if cfg.S3.Bucket != "" {
		s3Store, err := blob.NewS3(ctx, cfg.S3)
		if err != nil {
			log.Error("failed to initialize s3 storage", "error", err)
			os.Exit(1)
		}
		blobs = s3Store
	} else {
		log.Warn("s3 not configured, using in-memory blob storage")
		blobs = blob.NewInMemoryStore()
	}

	cipher, err := document.NewCipher(cfg.DocumentKeyHex)
	if err != nil {
		log.Error("invalid document encryption key", "error", err)
		os.Exit(1)
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "trustnest", "trustnest")
	jwtValidator := jwttoken.NewMiddlewareAdapter(jwtService)

	profileService := profileservice.New(profiles,
		profileservice.WithLogger(log),
		profileservice.WithMetrics(m),
	)
	matchingService := matchingservice.New(profileService, matches,
		matchingservice.WithLogger(log),
		matchingservice.WithMetrics(m),
	)
	verificationService := verificationservice.New(verifications,
		verificationservice.WithLogger(log),
		verificationservice.WithMetrics(m),
		verificationservice.WithOTPLimiter(limiter),
	)
	documentService := documentservice.New(documents, blobs, cipher,
		documentservice.WithLogger(log),
		documentservice.WithMetrics(m),
		documentservice.WithVerificationRecorder(verificationService),
	)
	adminService := adminservice.New(
		verifications, documents, blobs, flags, moderation, auditLog, guard.Require,
		adminservice.WithLogger(log),
		adminservice.WithMetrics(m),
	)

	health := map[string]httptransport.HealthChecker{}
	if db != nil {
		health["postgres"] = pingChecker{db.PingContext}
	}
	if redisClient != nil {
		health["redis"] = redisClient
	}

	router := httptransport.NewRouter(health,
		profilehandler.New(profileService, log, m, jwtValidator),
		matchinghandler.New(matchingService, log, m, jwtValidator),
		verificationhandler.New(verificationService, log, m, jwtValidator),
		documenthandler.New(documentService, log, m, jwtValidator),
		adminhandler.New(adminService, log, m, jwtValidator),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	if db != nil && len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := kgo.NewClient(kgo.SeedBrokers(cfg.Kafka.Brokers...))
		if err != nil {
			log.Error("failed to create kafka client", "error", err)
			os.Exit(1)
		}
		defer kafkaClient.Close()

		if err := auditoutbox.EnsureTopic(ctx, kafkaClient, cfg.Kafka.AuditTopic); err != nil {
			log.Error("failed to ensure audit topic", "error", err)
			os.Exit(1)
		}
		worker := auditoutbox.New(db, kafkaClient, cfg.Kafka.AuditTopic, log)
		g.Go(func() error {
			return worker.Run(ctx)
		})
	} else {
		log.Warn("kafka not configured, audit outbox worker disabled")
	}

	g.Go(func() error {
		log.Info("starting trustnest server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// pingChecker adapts a ping function to the router's health interface.
type pingChecker struct {
	ping func(ctx context.Context) error
}

func (p pingChecker) Health(ctx context.Context) error { return p.ping(ctx) }
