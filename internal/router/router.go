package router

import (
	"fmt"

	"github.com/pos-next/internal/cache"
	"github.com/pos-next/internal/config"
	adminhandlers "github.com/pos-next/internal/http/handlers/admin"
	poshandlers "github.com/pos-next/internal/http/handlers/pos"
	"github.com/pos-next/internal/logger"
	"github.com/pos-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 配置路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(CORSMiddleware(cfg.CORS))

	adminHandler := adminhandlers.New(c)
	posHandler := poshandlers.New(c)

	loginRateLimit := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", cfg.Redis.Prefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/admin/login",
			RateLimitMiddleware(cache.Client(), loginRateLimit, KeyByIPAndJSONField("username")),
			adminHandler.Login,
		)

		// 后台管理接口，店长角色
		admin := v1.Group("/admin")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.StaffRepo))
		admin.Use(RBACMiddleware(c.AuthzService))
		{
			admin.PUT("/password", adminHandler.UpdatePassword)

			admin.GET("/products", adminHandler.GetProducts)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/products/:id/variants", adminHandler.CreateVariant)
			admin.PUT("/products/:id/variants/:variant_id", adminHandler.UpdateVariant)
			admin.DELETE("/products/:id/variants/:variant_id", adminHandler.DeleteVariant)

			admin.GET("/categories", adminHandler.GetCategories)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			admin.GET("/coupons", adminHandler.GetCoupons)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.GET("/coupons/:id", adminHandler.GetCoupon)
			admin.PUT("/coupons/:id", adminHandler.UpdateCoupon)
			admin.DELETE("/coupons/:id", adminHandler.DeleteCoupon)

			admin.GET("/promotions", adminHandler.GetPromotions)
			admin.POST("/promotions", adminHandler.CreatePromotion)
			admin.GET("/promotions/:id", adminHandler.GetPromotion)
			admin.PUT("/promotions/:id", adminHandler.UpdatePromotion)
			admin.DELETE("/promotions/:id", adminHandler.DeletePromotion)

			admin.GET("/customers", adminHandler.GetCustomers)
			admin.POST("/customers", adminHandler.CreateCustomer)
			admin.PUT("/customers/:id", adminHandler.UpdateCustomer)
			admin.DELETE("/customers/:id", adminHandler.DeleteCustomer)

			admin.POST("/inventory/adjust", adminHandler.AdjustStock)
			admin.GET("/inventory/movements", adminHandler.GetStockMovements)
			admin.GET("/inventory/low-stock", adminHandler.GetLowStock)

			admin.GET("/orders", adminHandler.GetOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.POST("/orders/:id/void", adminHandler.VoidOrder)

			admin.GET("/staffs", adminHandler.GetStaffs)
			admin.POST("/staffs", adminHandler.CreateStaff)
			admin.PUT("/staffs/:id", adminHandler.UpdateStaff)
			admin.DELETE("/staffs/:id", adminHandler.DeleteStaff)
		}

		// 收银端接口，收银员角色即可
		pos := v1.Group("/pos")
		pos.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.StaffRepo))
		pos.Use(RBACMiddleware(c.AuthzService))
		{
			pos.GET("/products", posHandler.GetProducts)
			pos.GET("/products/:id", posHandler.GetProduct)
			pos.GET("/categories", posHandler.GetCategories)
			pos.GET("/customers", posHandler.GetCustomers)

			pos.POST("/checkout/preview", posHandler.PreviewCheckout)
			pos.POST("/checkout", posHandler.Checkout)
			pos.POST("/coupons/check", posHandler.CheckCoupon)

			pos.GET("/orders", posHandler.GetOrders)
			pos.GET("/orders/:id", posHandler.GetOrder)
			pos.POST("/orders/:id/void", posHandler.VoidOrder)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "pos-next",
		})
	})

	return r
}
