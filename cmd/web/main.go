// Package main is the entrypoint for the Tableside web server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tableside/tableside/internal/config"
	"github.com/tableside/tableside/internal/handler"
	"github.com/tableside/tableside/internal/imagestore"
	"github.com/tableside/tableside/internal/middleware"
	"github.com/tableside/tableside/internal/repository"
	"github.com/tableside/tableside/internal/server"
	"github.com/tableside/tableside/internal/service"
	"github.com/tableside/tableside/internal/session"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	sessions, err := session.NewStore(ctx, cfg.RedisURL, cfg.SessionTTL, cfg.RememberTTL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer sessions.Close()
	logger.Info("connected to Redis")

	images := imagestore.New(cfg.UploadDir)
	if err := images.EnsureDefaults(); err != nil {
		logger.Error("failed to prepare image folders", "error", err)
		os.Exit(1)
	}

	accountService := service.NewAccountService(repo, sessions)
	restaurantService := service.NewRestaurantService(repo, images)
	menuService := service.NewMenuService(repo, images)

	render, err := handler.NewRenderer(sessions, logger)
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	secure := cfg.IsProduction()
	healthHandler := handler.NewHealthHandler(repo, sessions)
	homeHandler := handler.NewHomeHandler(render, restaurantService)
	authHandler := handler.NewAuthHandler(render, accountService, sessions, repo, secure)
	accountHandler := handler.NewAccountHandler(render, accountService, restaurantService, images, repo, cfg.MaxUploadSize)
	restaurantHandler := handler.NewRestaurantHandler(render, restaurantService, images, repo, cfg.MaxUploadSize)
	menuHandler := handler.NewMenuHandler(render, restaurantService, menuService, images, cfg.MaxUploadSize)
	apiHandler := handler.NewAPIHandler(logger, restaurantService, menuService)

	r := setupRouter(
		render,
		healthHandler,
		homeHandler,
		authHandler,
		accountHandler,
		restaurantHandler,
		menuHandler,
		apiHandler,
		repo,
		sessions,
		cfg,
		logger,
	)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	render *handler.Renderer,
	healthHandler *handler.HealthHandler,
	homeHandler *handler.HomeHandler,
	authHandler *handler.AuthHandler,
	accountHandler *handler.AccountHandler,
	restaurantHandler *handler.RestaurantHandler,
	menuHandler *handler.MenuHandler,
	apiHandler *handler.APIHandler,
	repo *repository.Repository,
	sessions *session.Store,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: cfg.IsDevelopment(),
	}))
	// Uploads are the largest accepted bodies; leave headroom for the
	// rest of the multipart payload.
	r.Use(middleware.MaxBodySize(cfg.MaxUploadSize + 1<<20))

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Uploaded images and placeholders.
	fileServer := http.StripPrefix("/static/img/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/static/img/*", fileServer.ServeHTTP)

	authCfg := middleware.AuthConfig{
		Logger:     logger,
		Repository: repo,
		Sessions:   sessions,
		Secure:     cfg.IsProduction(),
	}

	// Every page resolves the acting user and flash token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CurrentUser(authCfg))

		// Public pages
		r.Get("/", homeHandler.Home)
		r.Post("/", homeHandler.Filter)
		r.Get("/register", authHandler.RegisterForm)
		r.Post("/register", authHandler.Register)
		r.Get("/login", authHandler.LoginForm)
		r.With(middleware.LoginRateLimit(middleware.LoginRateLimitConfig{
			Logger:    logger,
			Sessions:  sessions,
			Enabled:   cfg.LoginRateLimitEnabled,
			PerMinute: cfg.LoginRatePerMinute,
			Burst:     cfg.LoginRateBurst,
		})).Post("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)
		r.Get("/{restaurantID}/menu", menuHandler.Menu)
		r.Get("/{restaurantID}/client_menu", menuHandler.ClientMenu)

		// Public JSON exports, reachable cross-origin when configured
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
		r.Group(func(r chi.Router) {
			r.Use(middleware.CORS(corsCfg))
			r.Get("/restaurants/JSON", apiHandler.Restaurants)
			r.Get("/restaurant/{restaurantID}/JSON", apiHandler.Restaurant)
			r.Get("/restaurant/{restaurantID}/menuItem/JSON", apiHandler.MenuItems)
		})

		// Pages that require a login
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/{accountID}/account", accountHandler.Account)
			r.Get("/edit_profile", accountHandler.EditProfileForm)
			r.Post("/edit_profile", accountHandler.EditProfile)

			r.Get("/add_restaurant", restaurantHandler.AddRestaurantForm)
			r.Post("/add_restaurant", restaurantHandler.AddRestaurant)
			r.Get("/{restaurantID}/edit_restaurant", restaurantHandler.EditRestaurantForm)
			r.Post("/{restaurantID}/edit_restaurant", restaurantHandler.EditRestaurant)
			r.Get("/{restaurantID}/delete_restaurant", restaurantHandler.DeleteRestaurant)
			r.Post("/{restaurantID}/delete_restaurant", restaurantHandler.DeleteRestaurant)

			r.Get("/{restaurantID}/add_item", menuHandler.AddItemForm)
			r.Post("/{restaurantID}/add_item", menuHandler.AddItem)
			r.Get("/{restaurantID}/{itemID}/edit_menu_item", menuHandler.EditItemForm)
			r.Post("/{restaurantID}/{itemID}/edit_menu_item", menuHandler.EditItem)
			r.Get("/{restaurantID}/{itemID}/delete_menu_item", menuHandler.DeleteItem)
			r.Post("/{restaurantID}/{itemID}/delete_menu_item", menuHandler.DeleteItem)
		})

		r.NotFound(render.NotFoundPage)
		r.MethodNotAllowed(render.MethodNotAllowedPage)
	})

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
