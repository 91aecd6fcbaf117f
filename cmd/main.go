package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"food-delivery/internal/clients"
	"food-delivery/internal/config"
	"food-delivery/internal/database"
	"food-delivery/internal/logger"
	"food-delivery/internal/messaging"
	"food-delivery/internal/services/customer"
	"food-delivery/internal/services/delivery"
	"food-delivery/internal/services/gateway"
	"food-delivery/internal/services/order"
	"food-delivery/internal/services/restaurant"
)

func main() {
	var (
		mode = flag.String("mode", "", "Service mode (customer-service, restaurant-service, order-service, delivery-service, api-gateway)")
		port = flag.Int("port", 0, "HTTP port (defaults per mode)")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	// .env is optional, config.yaml expands ${VAR} references from it
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	if *port == 0 {
		*port = defaultPort(*mode)
	}

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": *port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "customer-service":
		err = runCustomerService(ctx, cfg, log, *port)
	case "restaurant-service":
		err = runRestaurantService(ctx, cfg, log, *port)
	case "order-service":
		err = runOrderService(ctx, cfg, log, *port)
	case "delivery-service":
		err = runDeliveryService(ctx, cfg, log, *port)
	case "api-gateway":
		err = runAPIGateway(ctx, cfg, log, *port)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

func defaultPort(mode string) int {
	switch mode {
	case "customer-service":
		return 3001
	case "restaurant-service":
		return 3002
	case "order-service":
		return 3003
	case "delivery-service":
		return 3004
	default:
		return 3000
	}
}

func runCustomerService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	db, err := setupDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	service := customer.NewService(customer.NewRepository(db), log)
	handler := customer.NewHandler(service, log)

	return serveHTTP(ctx, log, port, handler.Router())
}

func runRestaurantService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	db, err := setupDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	customers := clients.NewCustomerClient(cfg.Services.CustomerURL)
	service := restaurant.NewService(restaurant.NewRepository(db), customers, log)
	handler := restaurant.NewHandler(service, log)

	return serveHTTP(ctx, log, port, handler.Router())
}

func runOrderService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	db, err := setupDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	publisher := messaging.NewPublisher(conn, log)
	customers := clients.NewCustomerClient(cfg.Services.CustomerURL)
	restaurants := clients.NewRestaurantClient(cfg.Services.RestaurantURL)
	deliveries := clients.NewDeliveryClient(cfg.Services.DeliveryURL)

	service := order.NewService(order.NewRepository(db), publisher, customers, restaurants, deliveries, log)
	handler := order.NewHandler(service, log)
	listener := order.NewListener(conn, service, log)
	defer listener.Close()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveHTTP(gCtx, log, port, handler.Router())
	})
	g.Go(func() error {
		if err := listener.Start(gCtx); err != nil && gCtx.Err() == nil {
			return fmt.Errorf("listener failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func runDeliveryService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	db, err := setupDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	publisher := messaging.NewPublisher(conn, log)
	orders := clients.NewOrderClient(cfg.Services.OrderURL)

	service := delivery.NewService(delivery.NewRepository(db), publisher, orders, log)
	handler := delivery.NewHandler(service, log)
	listener := delivery.NewListener(conn, service, log)
	defer listener.Close()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveHTTP(gCtx, log, port, handler.Router())
	})
	g.Go(func() error {
		if err := listener.Start(gCtx); err != nil && gCtx.Err() == nil {
			return fmt.Errorf("listener failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func runAPIGateway(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	if cfg.Gateway.TokenSecret == "" {
		return fmt.Errorf("gateway.token_secret is required")
	}

	tokens := gateway.NewTokenIssuer(cfg.Gateway.TokenSecret,
		time.Duration(cfg.Gateway.TokenTTLMinutes)*time.Minute)
	customers := clients.NewCustomerClient(cfg.Services.CustomerURL)

	proxy, err := gateway.NewProxy(tokens, log,
		cfg.Services.CustomerURL, cfg.Services.RestaurantURL,
		cfg.Services.OrderURL, cfg.Services.DeliveryURL)
	if err != nil {
		return err
	}

	service := gateway.NewService(customers, tokens, log)
	handler := gateway.NewHandler(service, proxy, log)

	return serveHTTP(ctx, log, port, handler.Router())
}

func setupDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.DB, error) {
	db, err := database.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func serveHTTP(ctx context.Context, log *logger.Logger, port int, handler http.Handler) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("http_listening", fmt.Sprintf("Listening on port %d", port), "", map[string]interface{}{"port": port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
