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

	"fooddelivery/cmd"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/rabbitmq"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run wires the service and blocks until the process is signalled. Every exit path
// returns through here so the deferred shutdown steps always execute.
func run() error {
	configs, err := getConfigs()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connection to postgres through gorm: %w", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	conn, err := amqp.Dial(configs.AMQPURL)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer conn.Close()

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	publisher, err := newPublisher(app, conn)
	if err != nil {
		return err
	}
	if err = startPaymentConsumer(ctx, app, conn, logger); err != nil {
		return err
	}

	jobManager := app.CreateJobManager(publisher)
	if err = jobManager.StartAll(); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	defer jobManager.StopAll()

	return runWebServer(ctx, app, configs.HTTPPort)
}

func getConfigs() (cmd.Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cmd.Config{}, fmt.Errorf("loading .env file: %w", err)
	}

	config, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		return cmd.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	return config, nil
}

func newPublisher(app cmd.CompositionRoot, conn *amqp.Connection) (*rabbitmq.Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	publisher, err := app.CreateEventPublisher(ch)
	if err != nil {
		return nil, fmt.Errorf("event publisher: %w", err)
	}
	return publisher, nil
}

// startPaymentConsumer runs the consumer on its own channel until ctx is cancelled.
func startPaymentConsumer(ctx context.Context, app cmd.CompositionRoot, conn *amqp.Connection, logger *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}

	consumer, err := app.CreatePaymentConsumer(ch)
	if err != nil {
		return fmt.Errorf("payment consumer: %w", err)
	}

	go func() {
		if err := consumer.Run(ctx); err != nil {
			logger.Error("payment consumer stopped", "error", err)
		}
	}()
	return nil
}

func runWebServer(ctx context.Context, app cmd.CompositionRoot, port string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	if err := app.CreateHTTPServer().Register(e); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			e.Logger.Error(err)
		}
	}()

	if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
