// cmd/api/main.go
// Main entry point: bootstraps every component and starts the server

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imadgeboyega/tadhana-backend/internal/admin"
	"github.com/imadgeboyega/tadhana-backend/internal/auth"
	"github.com/imadgeboyega/tadhana-backend/internal/chat"
	"github.com/imadgeboyega/tadhana-backend/internal/common/database"
	"github.com/imadgeboyega/tadhana-backend/internal/common/logger"
	"github.com/imadgeboyega/tadhana-backend/internal/common/utils"
	"github.com/imadgeboyega/tadhana-backend/internal/config"
	"github.com/imadgeboyega/tadhana-backend/internal/consent"
	"github.com/imadgeboyega/tadhana-backend/internal/matching"
	"github.com/imadgeboyega/tadhana-backend/internal/notification"
	"github.com/imadgeboyega/tadhana-backend/internal/otp"
	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

var startTime = time.Now()

func main() {
	// 1. Load environment variables
	envErr := godotenv.Load()

	// 2. Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("🚀 Starting Tadhana matchmaking API")
	if envErr != nil {
		log.Warn("⚠️  No .env file found, using environment variables", "error", envErr)
	}

	// 3. Validate configuration
	log.Info("✔️  Step 3: Validating configuration...")
	if err := cfg.Validate(); err != nil {
		log.Error("❌ Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 4. Connect to PostgreSQL
	log.Info("🗄️  Step 4: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("❌ Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// 5. Connect to Redis (optional)
	log.Info("📮 Step 5: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("⚠️  Redis unavailable, continuing without it", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info("✅ Connected to Redis")
		}
	} else {
		log.Warn("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 6. Run database migrations
	log.Info("🔨 Step 6: Running database migrations...")
	if err := database.RunMigrations(ctx, db, func(i, total int) {
		log.Debug("migration", "step", i, "total", total)
	}); err != nil {
		log.Error("❌ Migration error", "error", err)
		os.Exit(1)
	}

	// 7. Email
	log.Info("📧 Step 7: Initializing email transports...")
	var transports []notification.Transport
	for _, name := range cfg.EmailTransports {
		switch name {
		case "gmail":
			gmail, err := notification.NewGmailTransport(ctx, cfg.GmailClientID, cfg.GmailClientSecret,
				cfg.GmailRefreshToken, cfg.EmailFrom, cfg.EmailFromName)
			if err != nil {
				log.Warn("⚠️  Gmail transport disabled", "error", err)
				continue
			}
			transports = append(transports, gmail)
		case "sendgrid":
			transports = append(transports, notification.NewSendGridTransport(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName))
		case "smtp":
			transports = append(transports, notification.NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort,
				cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom, cfg.EmailFromName))
		case "mock":
			transports = append(transports, notification.NewMockTransport())
		}
		log.Info("   ✅ Email transport enabled", "transport", name)
	}
	mailer := notification.NewMailer(log, transports...)
	notifier := notification.NewService(mailer, 0, log)

	// 8. OTP
	log.Info("📱 Step 8: Initializing OTP system...")
	var smsProvider otp.SMSProvider
	switch cfg.SMSProvider {
	case "twilio":
		smsProvider = otp.NewTwilioSMSProvider(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		log.Info("   ✅ Using Twilio for SMS")
	default:
		smsProvider = otp.NewMockSMSProvider()
		log.Info("   ⚠️  Using mock SMS provider")
	}
	otpService := otp.NewService(otp.NewPostgresRepository(db), mailer, smsProvider, &otp.OTPConfig{
		Length:      cfg.OTPLength,
		Expiry:      cfg.OTPExpiry,
		MaxAttempts: cfg.MaxOTPAttempts,
		RateLimit: otp.RateLimitConfig{
			MaxRequests: cfg.OTPResendMax,
			Window:      cfg.OTPResendWindow,
		},
	}, log)

	// 9. Profiles
	log.Info("👤 Step 9: Initializing profile system...")
	var files profile.FileStore
	if cfg.UseS3 {
		s3Store, err := profile.NewS3FileStore(cfg.S3BucketName, cfg.AWSRegion)
		if err != nil {
			log.Warn("⚠️  S3 unavailable, using local storage", "error", err)
			files = profile.NewLocalFileStore(cfg.LocalUploadDir, cfg.BaseURL+"/uploads")
		} else {
			files = s3Store
			log.Info("   ✅ Using S3 for payment proofs")
		}
	} else {
		files = profile.NewLocalFileStore(cfg.LocalUploadDir, cfg.BaseURL+"/uploads")
		log.Info("   ✅ Using local storage for payment proofs")
	}
	profileService := profile.NewService(profile.NewPostgresRepository(db), files, cfg.MaxUploadSize, log)

	// 10. Auth
	log.Info("🔐 Step 10: Initializing authentication...")
	authService := auth.NewService(profileService, otpService, redisClient, &auth.Config{
		JWTSecret:         cfg.JWTSecret,
		AccessTokenExpiry: cfg.AccessTokenExpiry,
		AdminUsername:     cfg.AdminUsername,
		AdminPasswordHash: cfg.AdminPasswordHash,
		AdminTokenExpiry:  cfg.AdminTokenExpiry,
		MaxLoginFailures:  5,
		LockoutWindow:     15 * time.Minute,
	}, log)
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)

	// 11. Matching, consent, chat
	log.Info("💘 Step 11: Initializing matching, consent and chat...")
	var locker matching.Locker
	if redisClient != nil {
		locker = matching.NewRedisLocker(redisClient)
		log.Info("   ✅ Batch lock backed by Redis")
	} else {
		locker = matching.NewPostgresLocker(db)
		log.Info("   ✅ Batch lock backed by a Postgres advisory lock")
	}

	matchingService := matching.NewService(
		matching.NewPostgresRepository(db),
		matching.NewScorer(matching.WeightsFromConfig(cfg.Matching)),
		locker,
		profileService,
		notifier,
		matching.Config{
			Gates: matching.BatchGates{
				MinSharedInterests: cfg.Matching.MinSharedInterests,
				RequirePreferences: cfg.Matching.RequirePreferences,
			},
			LockTTL:          cfg.Matching.LockTTL,
			MessageLimit:     cfg.ChatMessageLimit,
			SuggestionsLimit: cfg.Matching.SuggestionsLimit,
		},
		log,
	)

	consentService := consent.NewService(consent.NewPostgresRepository(db), profileService, notifier, log)

	chatService := chat.NewService(
		chat.NewPostgresRepository(db),
		consentService,
		profileService,
		notifier,
		chat.Config{
			MaxLength:    cfg.ChatMaxMessageLen,
			MessageLimit: cfg.ChatMessageLimit,
		},
		log,
	)

	adminService := admin.NewService(admin.NewPostgresRepository(db), profileService, matchingService,
		redisClient, cfg.AdminStatsTTL, log)

	// 12. Scheduler
	log.Info("⏰ Step 12: Starting scheduler...")
	scheduler := matching.NewScheduler(matchingService, cfg.Matching.Interval, func(ctx context.Context) error {
		deleted, err := otpService.CleanupExpiredOTPs(ctx)
		if err == nil && deleted > 0 {
			log.Info("🧹 Cleaned up expired OTPs", "count", deleted)
		}
		return err
	}, log)
	scheduler.Start(ctx)
	if cfg.Matching.Interval > 0 {
		log.Info("   ✅ Batch matching scheduled", "interval", cfg.Matching.Interval)
	}

	// 13. Routes
	log.Info("🛣️  Step 13: Setting up routes...")
	router := mux.NewRouter()

	if !cfg.UseS3 {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.LocalUploadDir))))
	}

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	authHandler.RegisterRoutes(router)
	otp.RegisterRoutes(router, otp.NewHandler(otpService))
	profile.RegisterRoutes(router, profile.NewHandler(profileService, cfg.MaxUploadSize), authMiddleware.Authenticate)
	matching.RegisterRoutes(router, matching.NewHandler(matchingService), authMiddleware.Authenticate)
	consent.RegisterRoutes(router, consent.NewHandler(consentService), authMiddleware.Authenticate)
	chat.RegisterRoutes(router, chat.NewHandler(chatService), authMiddleware.Authenticate)

	adminRouter := admin.NewRouter(admin.NewHandler(adminService), authHandler.AdminLogin, authMiddleware.RequireAdmin)
	router.PathPrefix("/api/admin").Handler(http.StripPrefix("/api/admin", adminRouter))

	router.Use(loggingMiddleware(log))

	// 14. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      corsMiddleware(cfg.CORSOrigin)(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("🚀 Server starting", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("❌ Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("⚠️  Shutdown signal received...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("❌ Server forced to shutdown", "error", err)
		return
	}

	log.Info("📨 Flushing pending notifications...")
	notifier.Wait()

	log.Info("✅ Server exited gracefully")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.SuccessResponse(w, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}, http.StatusOK)
}

// loggingMiddleware logs every request with its status and duration
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration", time.Since(start),
				"remote", r.RemoteAddr)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(origin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
