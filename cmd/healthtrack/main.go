package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthtrack/cmd/migration/initialize"
	"healthtrack/cmd/migration/seed"
	"healthtrack/config"
	"healthtrack/internal/app"
	"healthtrack/internal/database"
	"healthtrack/internal/handlers"
	"healthtrack/internal/logger"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "healthtrack",
		Short:         "HealthTrack clinic API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.InitConfig()
	if err != nil {
		return config.Config{}, err
	}
	logger.Setup(cfg.Environment, cfg.LogLevel)
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func runServer(cfg config.Config) error {
	log := logger.New("main").Function("runServer")

	a, err := app.NewWithConfig(cfg)
	if err != nil {
		return log.Err("failed to initialize app", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	server, err := handlers.NewServer(a)
	if err != nil {
		return log.Err("failed to build server", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		address := fmt.Sprintf(":%d", cfg.ServerPort)
		log.Info("Starting server", "address", address, "version", cfg.GeneralVersion)
		listenErr <- server.Listen(address)
	}()

	select {
	case err := <-listenErr:
		return log.Err("server stopped", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return log.Err("failed to shut down server", err)
	}
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQL(func(db database.DB) error {
				sqlDB, err := db.SQL.DB()
				if err != nil {
					return err
				}
				count, err := database.MigrateUp(sqlDB)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Printf("Applied %d migration(s).\n", count)
				return nil
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return withSQL(func(db database.DB) error {
				sqlDB, err := db.SQL.DB()
				if err != nil {
					return err
				}
				count, err := database.MigrateDown(sqlDB, steps)
				if err != nil {
					return fmt.Errorf("rollback failed: %w", err)
				}
				fmt.Printf("Rolled back %d migration(s).\n", count)
				return nil
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQL(func(db database.DB) error {
				sqlDB, err := db.SQL.DB()
				if err != nil {
					return err
				}
				statuses, err := database.MigrationStatuses(sqlDB)
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}
				fmt.Printf("%-40s %s\n", "MIGRATION", "STATUS")
				for _, s := range statuses {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Printf("%-40s %s\n", s.ID, state)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(upCmd, downCmd, statusCmd)
	return cmd
}

// withSQL opens the database without migrating it and closes it when fn
// returns.
func withSQL(fn func(db database.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db)
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the administrator and, outside production, demo accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := logger.New("main").Function("seed")

			db, err := database.New(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := initialize.InitializeTables(db.SQL, cfg, log); err != nil {
				return err
			}
			if cfg.IsProduction() {
				log.Info("Skipping demo accounts in production")
				return nil
			}
			return seed.Seed(db.SQL, cfg, log)
		},
	}
}
