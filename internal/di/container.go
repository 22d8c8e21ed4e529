// Package di assembles the runtime dependency graph: repositories, the
// price book, domain services, and the outbound submission client.
package di

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "github.com/spiritmart/api/internal/domain"
	"github.com/spiritmart/api/internal/platform/config"
	"github.com/spiritmart/api/internal/platform/observability"
	"github.com/spiritmart/api/internal/repositories"
	"github.com/spiritmart/api/internal/repositories/memory"
	"github.com/spiritmart/api/internal/services"
	"github.com/spiritmart/api/internal/submission"
)

// Repositories bundles the storage contracts the services rely upon.
type Repositories struct {
	Catalog repositories.CatalogRepository
	Carts   repositories.CartRepository
}

// Services bundles the service-layer contracts that handlers rely upon.
type Services struct {
	Catalog services.CatalogService
	Cart    services.CartService
	Orders  services.OrderService
}

// Container wires repositories and services for runtime use.
type Container struct {
	Config       config.Config
	Prices       domain.PriceBook
	Repositories Repositories
	Services     Services
}

// NewContainer constructs the runtime dependencies from configuration. The
// catalog feed is loaded eagerly so a bad feed fails startup rather than the
// first request.
func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	catalogRepo, err := memory.LoadCatalogFile(cfg.Catalog.FeedPath)
	if err != nil {
		return nil, fmt.Errorf("di: loading catalog feed %s: %w", cfg.Catalog.FeedPath, err)
	}
	cartRepo := memory.NewCartRepository(time.Now)
	priceBook := domain.DefaultPriceBook()

	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{
		Repository: catalogRepo,
		Logger:     observability.EventLogger(logger.Named("catalog")),
	})
	if err != nil {
		return nil, fmt.Errorf("di: catalog service: %w", err)
	}

	cartService, err := services.NewCartService(services.CartServiceDeps{
		Repository: cartRepo,
		Catalog:    catalogRepo,
		Prices:     &priceBook,
		Clock:      time.Now,
		Logger:     observability.EventLogger(logger.Named("cart")),
	})
	if err != nil {
		return nil, fmt.Errorf("di: cart service: %w", err)
	}

	var sender services.SubmissionSender
	if cfg.Submission.EndpointURL != "" {
		client, err := submission.NewClient(submission.ClientConfig{
			EndpointURL: cfg.Submission.EndpointURL,
			Timeout:     cfg.Submission.HTTPTimeout,
			Logger:      observability.EventLogger(logger.Named("submission")),
		})
		if err != nil {
			return nil, fmt.Errorf("di: submission client: %w", err)
		}
		sender = client
	} else {
		logger.Warn("submission endpoint not configured; order submissions will fail")
		sender = unconfiguredSender{}
	}

	orderService, err := services.NewOrderService(services.OrderServiceDeps{
		Cart:   cartService,
		Sender: sender,
		Clock:  time.Now,
		Logger: observability.EventLogger(logger.Named("orders")),
	})
	if err != nil {
		return nil, fmt.Errorf("di: order service: %w", err)
	}

	return &Container{
		Config: cfg,
		Prices: priceBook,
		Repositories: Repositories{
			Catalog: catalogRepo,
			Carts:   cartRepo,
		},
		Services: Services{
			Catalog: catalogService,
			Cart:    cartService,
			Orders:  orderService,
		},
	}, nil
}

// unconfiguredSender fails fast when no intake endpoint is configured,
// keeping the cart intact for retry once one is.
type unconfiguredSender struct{}

func (unconfiguredSender) Submit(context.Context, submission.Payload) (submission.Result, error) {
	return submission.Result{}, fmt.Errorf("%w: no endpoint configured", submission.ErrUnavailable)
}
