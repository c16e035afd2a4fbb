// Package api 處理 HTTP 請求路由和處理。
//
// 路由分為兩組：以 cpf 標頭識別的帳本 API，以及以用戶 token 識別的待辦事項 API。
// handlers 子包負責把請求轉換為服務調用，並把結果或錯誤轉換回 JSON 響應。
package api
