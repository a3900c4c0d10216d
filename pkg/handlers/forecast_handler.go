package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"food-demand-chat-api/pkg/logger"
	"food-demand-chat-api/pkg/models"
	"food-demand-chat-api/pkg/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ForecastHandler 需要予測とチャットボットのハンドラー
type ForecastHandler struct {
	chatService *services.ForecastChatService
	sessions    *services.SessionStore
	exporter    *services.ExportService
}

// NewForecastHandler 新しいForecastHandlerを作成
func NewForecastHandler(chatService *services.ForecastChatService, sessions *services.SessionStore, exporter *services.ExportService) *ForecastHandler {
	return &ForecastHandler{
		chatService: chatService,
		sessions:    sessions,
		exporter:    exporter,
	}
}

// GetCategories はセレクタに表示するラベルをコード順で返します。
func (fh *ForecastHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.CategoriesResponse{
		Days:    services.DayTable.Labels(),
		Weather: services.WeatherTable.Labels(),
		Dishes:  services.DishTable.Labels(),
	})
}

// CreateSession 新しいセッションを開始
func (fh *ForecastHandler) CreateSession(c *gin.Context) {
	sess := fh.sessions.Create()
	logger.Info(logger.Fields{"session_id": sess.ID()}, "session created")
	c.JSON(http.StatusCreated, models.SessionResponse{
		SessionID: sess.ID(),
		CreatedAt: sess.CreatedAt(),
	})
}

// DeleteSession セッションを終了し、キャッシュされた予測を破棄
func (fh *ForecastHandler) DeleteSession(c *gin.Context) {
	id := c.Param("sessionID")
	if !fh.sessions.Delete(id) {
		respondError(c, services.NewSessionNotFoundError(id))
		return
	}
	c.Status(http.StatusNoContent)
}

// Predict 予測を実行してセッションにキャッシュ
func (fh *ForecastHandler) Predict(c *gin.Context) {
	sess, ok := fh.session(c)
	if !ok {
		return
	}

	var req models.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := fh.chatService.Predict(c.Request.Context(), sess, req.Day, req.Weather, req.Dish)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PredictResponse{
		Success:  true,
		Data:     *result,
		Messages: models.PredictionMessages(*result),
	})
}

// GetPrediction キャッシュされた直近の予測を返す
func (fh *ForecastHandler) GetPrediction(c *gin.Context) {
	sess, ok := fh.session(c)
	if !ok {
		return
	}

	last, err := fh.chatService.LastPrediction(sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.PredictResponse{
		Success:  true,
		Data:     last,
		Messages: models.PredictionMessages(last),
	})
}

// Ask チャットボットに質問
func (fh *ForecastHandler) Ask(c *gin.Context) {
	sess, ok := fh.session(c)
	if !ok {
		return
	}

	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	answer, err := fh.chatService.Ask(sess, req.Question)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AskResponse{
		Success: true,
		Answer:  answer,
		Messages: []models.DisplayMessage{
			{Severity: models.SeverityInfo, Text: "Chatbot Answer:"},
			{Severity: models.SeverityInfo, Text: answer},
		},
	})
}

// ExportPrediction キャッシュされた予測をExcelでダウンロード
func (fh *ForecastHandler) ExportPrediction(c *gin.Context) {
	sess, ok := fh.session(c)
	if !ok {
		return
	}

	last, err := fh.chatService.LastPrediction(sess)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := fh.exporter.WriteWorkbook(&buf, last, time.Now()); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.ExportFileName(last)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// session はパスのsessionIDからセッションを取得します。見つからなければ404を返してfalse。
func (fh *ForecastHandler) session(c *gin.Context) (*services.SessionState, bool) {
	sess, err := fh.sessions.Get(c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return sess, true
}
