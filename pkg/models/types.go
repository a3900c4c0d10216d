package models

import (
	"fmt"
	"time"
)

// --- SageMakerエンドポイントのワイヤ形式 ---

// EndpointInstance 予測対象の1インスタンス
type EndpointInstance struct {
	Start  string    `json:"start"`  // "2006-01-02 15:04:05" 形式
	Target []float64 `json:"target"` // プレースホルダー [0]
	Cat    []int     `json:"cat"`    // [day, weather, dish]
}

// EndpointConfiguration 推論設定
type EndpointConfiguration struct {
	NumSamples  int      `json:"num_samples"`
	OutputTypes []string `json:"output_types"`
	Quantiles   []string `json:"quantiles"`
}

// EndpointRequest エンドポイントへのリクエストボディ
type EndpointRequest struct {
	Instances     []EndpointInstance    `json:"instances"`
	Configuration EndpointConfiguration `json:"configuration"`
}

// EndpointPrediction レスポンス内の1予測
type EndpointPrediction struct {
	Mean      []*float64            `json:"mean"`
	Quantiles map[string][]*float64 `json:"quantiles"`
}

// EndpointResponse エンドポイントからのレスポンスボディ
type EndpointResponse struct {
	Predictions []EndpointPrediction `json:"predictions"`
}

// --- ドメイン ---

// PredictionResult 直近の予測結果（セッションにキャッシュされる）
type PredictionResult struct {
	Dish string `json:"dish"`
	Day  string `json:"day"`
	Mean int    `json:"mean"`
	Low  int    `json:"low"`  // P10
	High int    `json:"high"` // P90
}

// Severity 表示メッセージの重要度
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DisplayMessage 画面に表示する1行
type DisplayMessage struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// PredictionMessages 予測成功時に表示する2行を返します。
func PredictionMessages(r PredictionResult) []DisplayMessage {
	return []DisplayMessage{
		{Severity: SeveritySuccess, Text: fmt.Sprintf("Mean Predicted Sales: %d", r.Mean)},
		{Severity: SeverityInfo, Text: fmt.Sprintf("Low Estimate (P10): %d, High Estimate (P90): %d", r.Low, r.High)},
	}
}

// --- HTTP API ---

// PredictRequest 予測リクエスト
type PredictRequest struct {
	Day     string `json:"day" binding:"required"`
	Weather string `json:"weather" binding:"required"`
	Dish    string `json:"dish" binding:"required"`
}

// AskRequest チャットボットへの質問
type AskRequest struct {
	Question string `json:"question"`
}

// SessionResponse セッション作成のレスポンス
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoriesResponse セレクタに表示するラベル一覧
type CategoriesResponse struct {
	Days    []string `json:"days"`
	Weather []string `json:"weather"`
	Dishes  []string `json:"dishes"`
}

// PredictResponse 予測レスポンス
type PredictResponse struct {
	Success  bool             `json:"success"`
	Data     PredictionResult `json:"data"`
	Messages []DisplayMessage `json:"messages"`
}

// AskResponse 質問への回答
type AskResponse struct {
	Success  bool             `json:"success"`
	Answer   string           `json:"answer"`
	Messages []DisplayMessage `json:"messages"`
}

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Success  bool     `json:"success"`
	Error    string   `json:"error"`
	Code     string   `json:"code,omitempty"`
	Severity Severity `json:"severity"`
}
