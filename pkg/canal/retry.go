package canal

import (
	"context"
	"fmt"
	"time"
)

// Retry 按指数退避重试 fn
// attempts: 最大尝试次数（含首次）
// minWait/maxWait: 退避区间，等待时间从 minWait 开始每次翻倍，封顶 maxWait
// 只在需要吸收瞬时故障的调用点使用，不做横切切面
func Retry(ctx context.Context, attempts int, minWait, maxWait time.Duration, fn func() error) error {
	var lastErr error
	wait := minWait

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
		if wait > maxWait {
			wait = maxWait
		}
	}

	return fmt.Errorf("重试 %d 次后仍失败: %w", attempts, lastErr)
}
