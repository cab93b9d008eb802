package router

import (
	"github.com/gin-gonic/gin"

	"canal_sync_v1_202608/internal/controller"
)

// Controllers 控制器集合
type Controllers struct {
	Webhook *controller.WebhookController
	Product *controller.ProductController
	Order   *controller.OrderController
}

// SetupRouter 注册所有路由
func SetupRouter(c *Controllers) *gin.Engine {
	r := gin.Default()

	// Canal webhook 入口
	r.POST("/webhooks/canal", c.Webhook.Receive)

	// API 路由组
	api := r.Group("/api")
	{
		// product 商品组
		products := api.Group("/products")
		{
			products.GET("", c.Product.List)
			products.GET("/:id", c.Product.GetDetail)
			products.GET("/slug/:slug", c.Product.GetBySlug)
			products.POST("", c.Product.Create)
			products.PUT("/:id", c.Product.Update)
			products.DELETE("/:id", c.Product.Delete)
		}
		// order 订单组
		orders := api.Group("/orders")
		{
			orders.GET("", c.Order.List)
			orders.GET("/:id", c.Order.GetDetail)
			orders.POST("/:id/place", c.Order.Place)
			orders.POST("/:id/fulfill", c.Order.Fulfill)
		}
	}

	return r
}
