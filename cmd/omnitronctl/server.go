package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/omnitron/omnitron-in-go/pkg/config"
	"github.com/omnitron/omnitron-in-go/pkg/db"
	"github.com/omnitron/omnitron-in-go/pkg/gateway"
	"github.com/omnitron/omnitron-in-go/pkg/metrics"
	"github.com/omnitron/omnitron-in-go/pkg/server"
	"github.com/omnitron/omnitron-in-go/pkg/server/endpoints"
	gormstore "github.com/omnitron/omnitron-in-go/pkg/server/store/gorm"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the Omnitron gateway",
	Long: `Run the Omnitron gateway.

Requires the DATABASE_URL environment variable and a configured admin
token (OMNITRON_ADMIN_TOKEN or the config file).

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		log := newLogger()

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Info().Msg("running database migrations")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		conn, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		identity := gormstore.NewIdentityStore(conn)
		rbac := gormstore.NewRBACStore(conn)
		targets := gormstore.NewTargetsStore(conn)
		tickets := gormstore.NewTicketsStore(conn)
		health := gormstore.NewHealthStore(conn)

		if err := targets.EnsureBuiltins(); err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create builtin role and target:", err)
			os.Exit(1)
		}

		srv := server.NewServer(cfg, conn, identity, rbac, targets, tickets, health, log)

		registry := prometheus.NewRegistry()
		recorder := metrics.NewCollector(registry)

		admin := endpoints.RegisterAll(srv)
		admin.Handle("/metrics", metrics.Handler(registry)).Methods("GET")

		pipeline := gateway.NewHandler(
			gateway.NewResolver(tickets, log),
			gateway.NewGate(identity, rbac, targets, log),
			gateway.NewForwarder(cfg.UpstreamResponseTimeout(), recorder, log),
			recorder,
			log,
		)
		srv.SetGatewayHandler(pipeline)

		stopWatch, err := config.Watch(func(*config.GateConfig) {
			log.Info().Msg("configuration reloaded")
		})
		if err != nil {
			log.Warn().Err(err).Msg("config file watching disabled")
		} else {
			defer stopWatch()
		}

		go func() {
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			log.Info().Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()

		log.Info().Str("addr", cfg.ListenAddr()).Msg("running gateway")
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
