package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"canal_sync_v1_202608/internal/service"
)

// ==================== OrderController ====================

// OrderController 订单控制器
type OrderController struct {
	svc            *service.OrderService
	fulfillmentSvc *service.FulfillmentService
}

// NewOrderController 创建订单控制器
func NewOrderController(svc *service.OrderService, fulfillmentSvc *service.FulfillmentService) *OrderController {
	return &OrderController{svc: svc, fulfillmentSvc: fulfillmentSvc}
}

// List 订单列表
// GET /api/orders
func (c *OrderController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	orders, total, err := c.svc.List(ctx, page, pageSize)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": orders, "total": total})
}

// GetDetail 订单详情
// GET /api/orders/:id
func (c *OrderController) GetDetail(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id 不合法"})
		return
	}
	order, err := c.svc.GetDetail(ctx, id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": order, "total_price": order.GetTotal()})
}

// Place 下单（触发上行同步）
// POST /api/orders/:id/place
func (c *OrderController) Place(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id 不合法"})
		return
	}
	order, err := c.svc.Place(ctx, id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": order})
}

// Fulfill 发货
// POST /api/orders/:id/fulfill
// 已有发货单的订单直接跳过（Fulfill 本身不做重复检查）
func (c *OrderController) Fulfill(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id 不合法"})
		return
	}

	existing, err := c.fulfillmentSvc.GetByOrderID(ctx, id)
	if err == nil && existing != nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "订单已有发货单"})
		return
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fulfillment, err := c.fulfillmentSvc.Fulfill(ctx, id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": fulfillment})
}
