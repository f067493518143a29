package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Hoshii/catalog"
	"github.com/Hoshii/initializers"
	"github.com/Hoshii/routes"
	"github.com/Hoshii/services"
)

var (
	verbose         bool
	shutdownTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "hoshii",
	Short: "Hoshii sky participation service",
	Long: `Hoshii records participation actions under a sky and serves the
aggregate star counts, density and recent comments that drive the sky view.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializers.LoadEnv(); err != nil {
			return err
		}
		cfg, err := initializers.LoadConfig()
		if err != nil {
			return err
		}
		if _, err := initializers.InitLogger(cfg.Env, verbose); err != nil {
			return err
		}
		if err := initializers.ConnectDB(cfg.DBURL); err != nil {
			return err
		}
		if err := initializers.ConnectRedis(cfg.RedisURL); err != nil {
			return err
		}

		services.InitSkyService(initializers.Store, catalog.Default(), services.SkyOptions{
			RequireKnownSky: cfg.RequireKnownSky,
			StrictActions:   cfg.StrictActions,
		}, initializers.Logger)
		services.InitPresetImportService(initializers.Store, cfg.SeedContainerName, services.DefaultPresets(), initializers.Logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := initializers.CloseDB(); err != nil {
			initializers.Logger.Warn("Failed to close database", zap.Error(err))
		}
		if err := initializers.CloseRedis(); err != nil {
			initializers.Logger.Warn("Failed to close redis", zap.Error(err))
		}
		_ = initializers.Logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and register the default sky",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := initializers.Migrate(ctx); err != nil {
			return err
		}
		skyID := initializers.Config.DefaultSkyID
		if err := initializers.Store.RegisterSky(ctx, skyID, skyID); err != nil {
			return err
		}
		initializers.Logger.Info("Migration finished", zap.String("defaultSky", skyID))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import the preset actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := services.GetPresetImportService().Import(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created=%d updated=%d skipped=%d\n", result.Created, result.Updated, result.Skipped)
		return nil
	},
}

var registerSkyCmd = &cobra.Command{
	Use:   "register-sky <skyId> [title]",
	Short: "Register a campaign sky for the known-sky check",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := catalog.ParseSkyID(args[0])
		if err != nil {
			return err
		}
		if ref.Namespace == catalog.NamespaceMember {
			return fmt.Errorf("member skies need no registration: %s", ref.ID)
		}

		title := ref.ID
		if len(args) == 2 {
			title = args[1]
		}
		if err := initializers.Store.RegisterSky(cmd.Context(), ref.ID, title); err != nil {
			return err
		}
		initializers.Logger.Info("Sky registered", zap.String("skyId", ref.ID), zap.String("title", title))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(registerSkyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serve runs the HTTP server until ctx is canceled
func serve(ctx context.Context) error {
	cfg := initializers.Config
	logger := initializers.Logger

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// the memory store starts empty, so the default sky has to be registered per process
	if err := initializers.Store.RegisterSky(ctx, cfg.DefaultSkyID, cfg.DefaultSkyID); err != nil {
		logger.Warn("Failed to register default sky", zap.String("skyId", cfg.DefaultSkyID), zap.Error(err))
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(cfg, logger, initializers.Redis),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
