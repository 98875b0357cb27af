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

	"salonbook-backend/config"
	"salonbook-backend/routes"
	"salonbook-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

var rootCmd = &cobra.Command{
	Use:   "salonbook",
	Short: "SalonBook marketplace API",
	Long: `SalonBook serves the salon booking API: salon discovery, bookings,
reviews, card payments, loyalty tiers and AI service recommendations.

Without a subcommand the HTTP server is started.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and the reminder scheduler",
	RunE:  runServe,
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the registered HTTP routes",
	RunE:  runRoutes,
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Consume booking events from RabbitMQ and log them",
	RunE:  runEvents,
}

func init() {
	rootCmd.AddCommand(serveCmd, routesCmd, eventsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	router := routes.SetupRouter(a.deps())
	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.log.Info("starting", zap.String("env", a.cfg.Server.AppEnv))
	return serve(ctx, a.log, srv, a.reminders)
}

// scheduler runs background jobs next to the HTTP server.
type scheduler interface {
	Start() error
	Stop(ctx context.Context) error
}

// serve starts jobs, then serves HTTP until ctx is done or the server fails.
func serve(ctx context.Context, log *zap.Logger, srv *http.Server, jobs scheduler) error {
	if err := jobs.Start(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown", zap.Error(err))
		}
		return jobs.Stop(shutdownCtx)
	})
	return g.Wait()
}

func runRoutes(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()
	printRoutes(routes.SetupRouter(a.deps()))
	return nil
}

func runEvents(cmd *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	log, err := config.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.RabbitMQ.URL == "" {
		return errors.New("RABBITMQ_URL is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := &services.EventConsumer{
		URL:   cfg.RabbitMQ.URL,
		Queue: cfg.RabbitMQ.Queue,
		Log:   log,
		Handle: func(e services.BookingEvent) error {
			log.Info("booking event",
				zap.String("type", e.Type),
				zap.Uint("booking_id", e.BookingID),
				zap.Uint("user_id", e.UserID),
				zap.Uint("salon_id", e.SalonID),
				zap.String("status", e.Status),
				zap.String("payment_status", e.PaymentStatus),
				zap.Float64("total_price", e.TotalPrice),
				zap.Time("occurred_at", e.OccurredAt),
			)
			return nil
		},
	}
	log.Info("consuming booking events", zap.String("queue", cfg.RabbitMQ.Queue))
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
