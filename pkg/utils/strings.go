package utils

import (
	"math/rand"
	"strings"
)

// Slugify 标题转 slug
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	return strings.Join(strings.Fields(s), "-")
}

// RandomTrackingNumber 生成 10 位数字的合成跟踪号
func RandomTrackingNumber() string {
	const digits = "0123456789"
	b := make([]byte, 10)
	for i := range b {
		b[i] = digits[rand.Intn(len(digits))]
	}
	return string(b)
}
