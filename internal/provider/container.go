package provider

import (
	"github.com/pos-next/internal/authz"
	"github.com/pos-next/internal/cache"
	"github.com/pos-next/internal/config"
	"github.com/pos-next/internal/logger"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/queue"
	"github.com/pos-next/internal/repository"
	"github.com/pos-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	StaffRepo       repository.StaffRepository
	CustomerRepo    repository.CustomerRepository
	CategoryRepo    repository.CategoryRepository
	ProductRepo     repository.ProductRepository
	VariantRepo     repository.ProductVariantRepository
	CouponRepo      repository.CouponRepository
	CouponUsageRepo repository.CouponUsageRepository
	PromotionRepo   repository.PromotionRepository
	OrderRepo       repository.OrderRepository
	MovementRepo    repository.StockMovementRepository

	// Services
	AuthzService          *authz.Service
	AuthService           *service.AuthService
	StaffService          *service.StaffService
	CustomerService       *service.CustomerService
	CategoryService       *service.CategoryService
	ProductService        *service.ProductService
	InventoryService      *service.InventoryService
	CouponService         *service.CouponService
	CouponAdminService    *service.CouponAdminService
	PromotionService      *service.PromotionService
	PromotionAdminService *service.PromotionAdminService
	CheckoutService       *service.CheckoutService
	OrderService          *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
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
	c.StaffRepo = repository.NewStaffRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewProductVariantRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
	c.PromotionRepo = repository.NewPromotionRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.MovementRepo = repository.NewStockMovementRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.syncStaffRoles()

	c.AuthService = service.NewAuthService(c.Config, c.StaffRepo)
	c.StaffService = service.NewStaffService(c.StaffRepo, c.AuthService, c.AuthzService)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.VariantRepo, c.CategoryRepo)
	c.InventoryService = service.NewInventoryService(c.ProductRepo, c.VariantRepo, c.MovementRepo, c.QueueClient)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.CouponUsageRepo, c.OrderRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo)
	c.PromotionService = service.NewPromotionService(c.PromotionRepo)
	c.PromotionAdminService = service.NewPromotionAdminService(c.PromotionRepo, c.QueueClient)
	c.CheckoutService = service.NewCheckoutService(
		c.ProductRepo,
		c.VariantRepo,
		c.CustomerRepo,
		c.OrderRepo,
		c.MovementRepo,
		c.PromotionRepo,
		c.CouponService,
		c.PromotionService,
		c.QueueClient,
	)
	c.OrderService = service.NewOrderService(c.OrderRepo)
}

// syncStaffRoles 启动时把员工表中的角色同步到授权层，
// 保证直接建库或种子数据写入的员工也能拿到策略。
func (c *Container) syncStaffRoles() {
	staffs, err := c.StaffRepo.List()
	if err != nil {
		logger.Warnw("provider_sync_staff_roles_failed", "error", err)
		return
	}
	for _, staff := range staffs {
		role := staff.Role
		if !staff.IsActive {
			role = ""
		}
		if err := c.AuthzService.SyncStaffRole(staff.ID, role); err != nil {
			logger.Warnw("provider_sync_staff_role_failed", "staff_id", staff.ID, "error", err)
		}
	}
}
