package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/renalreg/registry/internal/config"
	"github.com/renalreg/registry/internal/domain/dashboard"
	"github.com/renalreg/registry/internal/domain/institute"
	"github.com/renalreg/registry/internal/domain/patient"
	"github.com/renalreg/registry/internal/domain/user"
	"github.com/renalreg/registry/internal/platform/auth"
	"github.com/renalreg/registry/internal/platform/blobstore"
	"github.com/renalreg/registry/internal/platform/calculator"
	"github.com/renalreg/registry/internal/platform/db"
	"github.com/renalreg/registry/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "registry-server",
		Short: "Pediatric renal registry API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(superadminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the registry API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// superadminCmd bootstraps the first SUPER_ADMIN account. Every other user is
// created through the API, which requires an admin to already exist.
func superadminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "superadmin",
		Short: "Manage super admin accounts",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a super admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			if name == "" {
				name = "Super Admin"
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			codec := auth.NewTokenCodec([]byte(cfg.ResolvedJWTSecret()), cfg.JWTTTL)
			instituteRepo := institute.NewRepo(pool)
			instituteSvc := institute.NewService(instituteRepo, logger)
			userSvc := user.NewService(user.NewRepo(pool), codec, instituteSvc, logger)

			u, err := userSvc.Create(ctx, user.CreateParams{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     auth.RoleSuperAdmin,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created super admin %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Display name")
	createCmd.Flags().String("email", "", "Login email")
	createCmd.Flags().String("password", "", "Initial password")
	cmd.AddCommand(createCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.IsDev() && cfg.JWTSecret == "" {
		logger.Warn().Msg("running with the built-in development signing secret")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Auth stack
	codec := auth.NewTokenCodec([]byte(cfg.ResolvedJWTSecret()), cfg.JWTTTL)
	shield := auth.NewShield(auth.DefaultOperations())

	// Domain services
	instituteRepo := institute.NewRepo(pool)
	instituteSvc := institute.NewService(instituteRepo, logger)

	userRepo := user.NewRepo(pool)
	userSvc := user.NewService(userRepo, codec, instituteSvc, logger)

	patientRepo := patient.NewRepo(pool)
	patientSvc := patient.NewService(patientRepo, instituteSvc, logger)

	dashboardSvc := dashboard.NewService(dashboard.NewRepo(pool), logger)

	authn := auth.NewAuthenticator(codec, userSvc, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(auth.Middleware(authn))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// API routes
	apiV1 := e.Group("/api/v1")
	user.NewHandler(userSvc).RegisterRoutes(apiV1, shield)
	institute.NewHandler(instituteSvc, userSvc).RegisterRoutes(apiV1, shield)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1, shield)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(apiV1, shield)
	calculator.NewHandler().RegisterRoutes(apiV1, shield)
	blobstore.NewBlobHandler(blobstore.NewInMemoryBlobStore()).RegisterRoutes(apiV1, shield)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
