package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"canal_sync_v1_202608/internal/model"
	"canal_sync_v1_202608/internal/service"
)

// ==================== 请求结构 ====================

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	Title         string   `json:"title" binding:"required"`
	Category      string   `json:"category"`
	Label         string   `json:"label"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	Price         float64  `json:"price" binding:"required"`
	DiscountPrice *float64 `json:"discount_price"`
}

// ==================== ProductController ====================

// ProductController 商品控制器
type ProductController struct {
	svc *service.ItemService
}

// NewProductController 创建商品控制器
func NewProductController(svc *service.ItemService) *ProductController {
	return &ProductController{svc: svc}
}

// List 商品列表
// GET /api/products
func (c *ProductController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	items, total, err := c.svc.List(ctx, page, pageSize)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": items, "total": total})
}

// GetDetail 商品详情
// GET /api/products/:id
func (c *ProductController) GetDetail(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id 不合法"})
		return
	}
	item, err := c.svc.GetDetail(ctx, id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": item})
}

// GetBySlug 按 slug 查商品详情
// GET /api/products/slug/:slug
func (c *ProductController) GetBySlug(ctx *gin.Context) {
	item, err := c.svc.GetBySlug(ctx, ctx.Param("slug"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": item})
}

// Create 创建商品（保存后触发上行同步）
// POST /api/products
func (c *ProductController) Create(ctx *gin.Context) {
	var req ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := &model.Item{
		Title:         req.Title,
		Category:      req.Category,
		Label:         req.Label,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
	}
	if err := c.svc.Create(ctx, item); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": item})
}

// Update 更新商品（保存后触发上行同步）
// PUT /api/products/:id
func (c *ProductController) Update(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id 不合法"})
		return
	}
	var req ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := c.svc.GetDetail(ctx, id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	item.Title = req.Title
	item.Category = req.Category
	item.Label = req.Label
	item.Description = req.Description
	item.ImageURL = req.ImageURL
	item.Price = req.Price
	item.DiscountPrice = req.DiscountPrice

	if err := c.svc.Update(ctx, item); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": item})
}

// Delete 删除商品（触发远端删除）
// DELETE /api/products/:id
func (c *ProductController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id 不合法"})
		return
	}
	if err := c.svc.Delete(ctx, id); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
