package handlers

import (
	"crypto/subtle"
	"net/http"
	"sync/atomic"

	config "food-demand-chat-api/configs"
	"food-demand-chat-api/pkg/logger"
	"food-demand-chat-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler は管理者向け操作のハンドラです。
type AdminHandler struct {
	AdminUsername string
	AdminPassword string
	EndpointName  string

	sessions    *services.SessionStore
	maintenance atomic.Bool
}

// NewAdminHandler は新しいAdminHandlerを生成します。
func NewAdminHandler(cfg *config.Config, sessions *services.SessionStore) *AdminHandler {
	return &AdminHandler{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		EndpointName:  cfg.SageMakerEndpointName,
		sessions:      sessions,
	}
}

// AdminCredentials は管理者認証のためのリクエストボディです。
type AdminCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StartMaintenance はメンテナンスモードを開始します。
func (h *AdminHandler) StartMaintenance(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	h.maintenance.Store(true)
	logger.Warn(nil, "maintenance mode started")
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode started"})
}

// StopMaintenance はメンテナンスモードを停止します。
func (h *AdminHandler) StopMaintenance(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	h.maintenance.Store(false)
	logger.Info(nil, "maintenance mode stopped")
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode stopped"})
}

// GetHealthStatus は現在のサーバーの状態を返します。
func (h *AdminHandler) GetHealthStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"isMaintenanceMode": h.maintenance.Load(),
		"activeSessions":    h.sessions.Count(),
		"endpointName":      h.EndpointName,
	})
}

// HealthCheck は外部のヘルスチェッカー（例: ロードバランサー）からのリクエストに応答します。
func (h *AdminHandler) HealthCheck(c *gin.Context) {
	if h.maintenance.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "Server is in maintenance mode"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MaintenanceGuard はメンテナンス中に予測・チャットAPIを503で止めるミドルウェアです。
func (h *AdminHandler) MaintenanceGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.maintenance.Load() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success":  false,
				"error":    "Server is in maintenance mode",
				"severity": "warning",
			})
			return
		}
		c.Next()
	}
}

func (h *AdminHandler) authorize(c *gin.Context) bool {
	var input AdminCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return false
	}

	// パスワード未設定の場合は管理APIを無効化
	if h.AdminPassword == "" ||
		subtle.ConstantTimeCompare([]byte(input.Username), []byte(h.AdminUsername)) != 1 ||
		subtle.ConstantTimeCompare([]byte(input.Password), []byte(h.AdminPassword)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return false
	}
	return true
}
