package provider

import (
	"time"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/ai/adjudicator"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/ai/recommender"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/ai/riskmodel"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/cache"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/config"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/logger"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/queue"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/service"
)

// Container dependency injection container
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	CustomerRepo repository.CustomerRepository
	ProductRepo  repository.ProductRepository
	OrderRepo    repository.OrderRepository
	InvoiceRepo  repository.InvoiceRepository
	ClaimRepo    repository.ClaimRepository
	MessageRepo  repository.MessageRepository

	// Services
	InvoiceService      *service.InvoiceService
	OrderService        *service.OrderService
	SubstitutionService *service.SubstitutionService
	ClaimService        *service.ClaimService
	MessageService      *service.MessageService
	RiskService         *service.RiskService
	RecommendService    *service.RecommendService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.InvoiceRepo = repository.NewInvoiceRepository(db)
	c.ClaimRepo = repository.NewClaimRepository(db)
	c.MessageRepo = repository.NewMessageRepository(db)
}

func (c *Container) initServices() {
	adjClient := adjudicator.NewHTTPClient(
		c.Config.Claims.AdjudicatorURL,
		c.Config.Claims.AdjudicatorAPIKey,
		time.Duration(c.Config.Claims.TimeoutMS)*time.Millisecond,
	)
	riskClient := riskmodel.NewHTTPClient(
		c.Config.Risk.URL,
		time.Duration(c.Config.Risk.TimeoutMS)*time.Millisecond,
	)
	recClient := recommender.NewHTTPClient(
		c.Config.Recommender.URL,
		time.Duration(c.Config.Recommender.TimeoutMS)*time.Millisecond,
	)

	c.InvoiceService = service.NewInvoiceService(c.InvoiceRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CustomerRepo, c.ProductRepo, c.MessageRepo, c.InvoiceService)
	c.SubstitutionService = service.NewSubstitutionService(c.OrderRepo, c.ProductRepo, c.MessageRepo, c.InvoiceService)
	c.ClaimService = service.NewClaimService(c.ClaimRepo, c.OrderRepo, c.MessageRepo, c.InvoiceService, c.QueueClient, adjClient)
	c.MessageService = service.NewMessageService(c.MessageRepo, c.OrderRepo, c.ClaimRepo)
	c.RiskService = service.NewRiskService(c.OrderRepo, riskClient)
	c.RecommendService = service.NewRecommendService(recClient, c.ProductRepo)
}
