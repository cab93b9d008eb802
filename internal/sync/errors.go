package sync

import "fmt"

// ValidationError 本地数据不满足上行同步前提
// 例如订单缺少收货地址
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "校验失败: " + e.Msg
}

// NotFoundError 下行处理时按 Canal ID 找不到本地记录
type NotFoundError struct {
	Entity  string // item / order / order_line
	CanalID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("本地 %s 不存在: canal_id=%s", e.Entity, e.CanalID)
}
