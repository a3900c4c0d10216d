package handlers

import (
	"net/http"

	"food-demand-chat-api/pkg/logger"
	"food-demand-chat-api/pkg/models"
	"food-demand-chat-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// statusForCode エラー分類をHTTPステータスに変換
func statusForCode(code services.ErrorCode) int {
	switch code {
	case services.ErrCodeEncoding:
		return http.StatusBadRequest
	case services.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case services.ErrCodePrecondition:
		return http.StatusConflict
	case services.ErrCodeTransport, services.ErrCodeResponseShape:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError はエラーを表示用のJSONに変換して返します。
func respondError(c *gin.Context, err error) {
	code := services.ErrorCodeOf(err)
	status := statusForCode(code)
	msg := services.DisplayMessageOf(err)

	if status >= http.StatusInternalServerError {
		logger.Error(logger.Fields{"path": c.FullPath(), "code": code, "error": err.Error()}, "request failed")
	}

	c.JSON(status, models.ErrorResponse{
		Success:  false,
		Error:    msg.Text,
		Code:     string(code),
		Severity: msg.Severity,
	})
}

// respondBadRequest リクエストボディの解析失敗
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success:  false,
		Error:    "invalid request body: " + err.Error(),
		Severity: models.SeverityError,
	})
}
