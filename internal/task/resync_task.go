package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"canal_sync_v1_202608/internal/model"
	"canal_sync_v1_202608/internal/repository"
	"canal_sync_v1_202608/internal/sync"
)

// ==================== ResyncTask 补偿同步任务 ====================

// ResyncTask 定时把上行同步失败的商品重新推送到 Canal
// 上行触发器在边界吞错，本地与远端可能分叉，这个任务是带外补偿路径
type ResyncTask struct {
	itemRepo   repository.ItemRepository
	dispatcher *sync.Dispatcher
	cron       *cron.Cron
	spec       string

	batchLimit int
}

// NewResyncTask 创建补偿同步任务
func NewResyncTask(itemRepo repository.ItemRepository, dispatcher *sync.Dispatcher, spec string) *ResyncTask {
	return &ResyncTask{
		itemRepo:   itemRepo,
		dispatcher: dispatcher,
		cron:       cron.New(cron.WithSeconds()),
		spec:       spec,
		batchLimit: 50,
	}
}

// Start 启动定时任务
func (t *ResyncTask) Start() {
	_, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.resyncJob(ctx)
	})
	if err != nil {
		log.Fatalf("[ResyncTask] 无法启动补偿同步任务: %v", err)
	}
	t.cron.Start()
	log.Printf("[ResyncTask] 已启动，spec=%s", t.spec)
}

// Stop 停止定时任务
func (t *ResyncTask) Stop() {
	t.cron.Stop()
}

// resyncJob 单轮补偿：捞一批同步失败的商品逐个重推
func (t *ResyncTask) resyncJob(ctx context.Context) {
	items, err := t.itemRepo.ListBySyncStatus(ctx, model.SyncStatusFailed, t.batchLimit)
	if err != nil {
		log.Printf("[ResyncTask] 查询失败商品出错: %v", err)
		return
	}
	if len(items) == 0 {
		return
	}

	log.Printf("[ResyncTask] 开始补偿，共 %d 个商品", len(items))
	succeeded := 0
	for i := range items {
		if err := t.dispatcher.SyncItem(ctx, &items[i]); err != nil {
			log.Printf("[ResyncTask] 商品重推失败 item_id=%d: %v", items[i].ID, err)
			continue
		}
		succeeded++
	}
	log.Printf("[ResyncTask] 本轮完成：成功 %d / %d", succeeded, len(items))
}
