package dto

// ── 认证模块 DTO ──

// LoginRequest 管理员登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

// TokenResponse 能力凭证响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // 有效期（秒）
	ExpiresAt   string `json:"expires_at"`
}
