// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 包含身份識別（CPF 與用戶 token）、請求日誌記錄以及 panic 恢復。
package middleware
