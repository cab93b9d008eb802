package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"canal_sync_v1_202608/internal/sync"
)

// ==================== WebhookController ====================

// WebhookController Canal webhook 入口
type WebhookController struct {
	dispatcher *sync.WebhookDispatcher
}

// NewWebhookController 创建 webhook 控制器
func NewWebhookController(dispatcher *sync.WebhookDispatcher) *WebhookController {
	return &WebhookController{dispatcher: dispatcher}
}

// Receive 接收 Canal webhook
// POST /webhooks/canal
// topic 从 X-Canal-Topic 头取；处理失败返回非 2xx，让 Canal 重新投递
// （handler 按 canal id 幂等 upsert，重复投递安全）
func (c *WebhookController) Receive(ctx *gin.Context) {
	topic := ctx.GetHeader("X-Canal-Topic")
	if topic == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "缺少 X-Canal-Topic 头"})
		return
	}

	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "读取请求体失败"})
		return
	}

	if err := c.dispatcher.Dispatch(ctx.Request.Context(), topic, payload); err != nil {
		var notFound *sync.NotFoundError
		var validation *sync.ValidationError
		switch {
		case errors.As(err, &notFound), errors.As(err, &validation):
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
