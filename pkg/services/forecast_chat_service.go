package services

import (
	"context"
	"strings"

	"food-demand-chat-api/pkg/models"
)

const (
	msgPredictFirst  = "Please make a prediction first!"
	msgEnterQuestion = "Please enter a question first!"
)

// ForecastChatService は「予測」「質問」トリガーの処理をまとめたものです。
// HTTPとターミナルの両シェルから使われます。
type ForecastChatService struct {
	predictor Predictor
}

// NewForecastChatService 新しいサービスを作成
func NewForecastChatService(predictor Predictor) *ForecastChatService {
	return &ForecastChatService{predictor: predictor}
}

// Predict は予測を実行し、成功した場合のみセッションのキャッシュを上書きします。
func (s *ForecastChatService) Predict(ctx context.Context, state *SessionState, day, weather, dish string) (*models.PredictionResult, error) {
	result, err := s.predictor.Predict(ctx, NormalizeLabel(day), NormalizeLabel(weather), NormalizeLabel(dish))
	if err != nil {
		return nil, err
	}
	state.Set(*result)
	return result, nil
}

// Ask はキャッシュされた予測について質問に答えます。
// 質問が空、または予測がまだない場合は前提条件エラーを返し、Answerは呼ばない。
func (s *ForecastChatService) Ask(state *SessionState, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", NewPreconditionError(msgEnterQuestion)
	}
	last, ok := state.Get()
	if !ok {
		return "", NewPreconditionError(msgPredictFirst)
	}
	return Answer(question, last), nil
}

// LastPrediction はキャッシュされた予測を返します。空なら前提条件エラー。
func (s *ForecastChatService) LastPrediction(state *SessionState) (models.PredictionResult, error) {
	last, ok := state.Get()
	if !ok {
		return models.PredictionResult{}, NewPreconditionError(msgPredictFirst)
	}
	return last, nil
}
