// Package dto 提供 HTTP 层数据传输对象
package dto

// SetPropertyRequest 写入属性请求
type SetPropertyRequest struct {
	Value string `json:"value" binding:"required"`
}

// PropertyResponse 属性解析结果响应
type PropertyResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
