package canal

import "fmt"

// APIError Canal 返回非 2xx 时的错误
// 保留原始响应体，方便排查
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("canal api 错误: status=%d body=%s", e.StatusCode, e.Body)
}
