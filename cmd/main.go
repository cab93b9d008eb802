package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"canal_sync_v1_202608/internal/config"
	"canal_sync_v1_202608/internal/controller"
	"canal_sync_v1_202608/internal/model"
	"canal_sync_v1_202608/internal/repository"
	"canal_sync_v1_202608/internal/router"
	"canal_sync_v1_202608/internal/service"
	"canal_sync_v1_202608/internal/sync"
	"canal_sync_v1_202608/internal/task"
	"canal_sync_v1_202608/pkg/canal"
	"canal_sync_v1_202608/pkg/database"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db)

	// 4. 启动定时任务
	deps.ResyncTask.Start()
	defer deps.ResyncTask.Stop()

	// 5. 初始化路由并启动服务
	r := router.SetupRouter(deps.Controllers)
	startServer(r, cfg.Port)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Controllers *router.Controllers
	ResyncTask  *task.ResyncTask
}

// Repositories 仓库集合
type Repositories struct {
	Item        repository.ItemRepository
	Order       repository.OrderRepository
	Fulfillment repository.FulfillmentRepository
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(
		cfg.DatabaseURL,
		// Catalog
		&model.Item{},
		// Order
		&model.Address{}, &model.Order{}, &model.OrderLine{},
		// Fulfillment
		&model.Fulfillment{}, &model.FulfillmentLine{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Item:        repository.NewItemRepository(db),
		Order:       repository.NewOrderRepository(db),
		Fulfillment: repository.NewFulfillmentRepository(db),
	}

	// -------- Canal 客户端与同步调度器 --------
	client := canal.NewClient(cfg.CanalBaseURL, cfg.CanalAppID, cfg.CanalAccessToken)
	outbound := sync.NewDispatcher(client, repos.Item, repos.Order)
	inbound := sync.NewWebhookDispatcher(repos.Item, repos.Order, repos.Fulfillment)

	// -------- Service 层 --------
	itemSvc := service.NewItemService(repos.Item, outbound)
	orderSvc := service.NewOrderService(repos.Order, outbound)
	fulfillmentSvc := service.NewFulfillmentService(repos.Fulfillment, repos.Order, client)

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Webhook: controller.NewWebhookController(inbound),
		Product: controller.NewProductController(itemSvc),
		Order:   controller.NewOrderController(orderSvc, fulfillmentSvc),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Controllers: controllers,
		ResyncTask:  task.NewResyncTask(repos.Item, outbound, cfg.ResyncSpec),
	}
}

// startServer 启动 HTTP 服务并处理优雅退出
func startServer(handler http.Handler, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	go func() {
		log.Printf("HTTP 服务启动，端口 %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP 服务异常退出: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("收到退出信号，开始优雅关闭...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("优雅关闭失败: %v", err)
	}
	log.Println("服务已退出")
}
