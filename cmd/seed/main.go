package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GTDGit/gtd_storefront/internal/config"
	"github.com/GTDGit/gtd_storefront/internal/database"
	"github.com/GTDGit/gtd_storefront/internal/importer"
	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

type seedOptions struct {
	migrations    string
	skipMigrate   bool
	timeout       time.Duration
	adminEmail    string
	adminPassword string
	adminName     string
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed [source]",
		Short: "Load a catalog document into the storefront database",
		Long: "Loads collections and products from a YAML or JSON document. The source is a\n" +
			"local path, file:///path or s3://bucket/key. The whole document is validated\n" +
			"before anything is written.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			if source == "" && opts.adminEmail == "" {
				return fmt.Errorf("nothing to do: pass a catalog source or --admin-email")
			}
			return runSeed(cmd.Context(), source, opts)
		},
	}

	cmd.Flags().StringVar(&opts.migrations, "migrations", "migrations", "Directory holding the SQL migrations")
	cmd.Flags().BoolVar(&opts.skipMigrate, "skip-migrate", false, "Do not run migrations before importing")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Overall time limit (e.g. 90s, 5m)")
	cmd.Flags().StringVar(&opts.adminEmail, "admin-email", os.Getenv("ADMIN_EMAIL"), "Create or reset this admin user")
	cmd.Flags().StringVar(&opts.adminPassword, "admin-password", os.Getenv("ADMIN_PASSWORD"), "Password for --admin-email")
	cmd.Flags().StringVar(&opts.adminName, "admin-name", "Administrator", "Display name for --admin-email")

	return cmd
}

func runSeed(ctx context.Context, source string, opts *seedOptions) error {
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	db, err := database.Connect(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if !opts.skipMigrate {
		if err := database.Migrate(db.DB, opts.migrations); err != nil {
			return err
		}
		log.Info().Msg("migrations completed successfully")
	}

	if source != "" {
		im := importer.New(
			importer.NewLoader(config.LoadS3()),
			repository.NewProductRepository(db),
			repository.NewCollectionRepository(db),
		)
		res, err := im.Import(ctx, source)
		if err != nil {
			return err
		}
		log.Info().
			Str("source", source).
			Int("collections", res.Collections).
			Int("products", res.Products).
			Msg("Seed completed")
	}

	if opts.adminEmail != "" {
		if opts.adminPassword == "" {
			return fmt.Errorf("--admin-password (or ADMIN_PASSWORD) is required with --admin-email")
		}
		// Tokens are never issued here, so the signer secret is irrelevant.
		auth := service.NewAdminAuthService(repository.NewAdminUserRepository(db), utils.NewJWTSigner("", 0))
		if err := auth.CreateAdmin(opts.adminEmail, opts.adminPassword, opts.adminName); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		log.Info().Str("email", opts.adminEmail).Msg("Admin user saved")
	}

	return nil
}
