package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"food-demand-chat-api/pkg/logger"
	"food-demand-chat-api/pkg/models"
)

const (
	startTimeLayout = "2006-01-02 15:04:05"
	numSamples      = 50
	lowQuantile     = "0.1"
	highQuantile    = "0.9"
)

// EndpointInvoker はJSONペイロードを推論エンドポイントに送信します。
type EndpointInvoker interface {
	Invoke(ctx context.Context, payload []byte) ([]byte, error)
}

// Predictor は予測を実行する処理の抽象です（シェル側のテストで差し替える）。
type Predictor interface {
	Predict(ctx context.Context, day, weather, dish string) (*models.PredictionResult, error)
}

// PredictionService 需要予測サービス
type PredictionService struct {
	invoker  EndpointInvoker
	endpoint string
	timeout  time.Duration
	now      func() time.Time
}

// NewPredictionService 新しい予測サービスを作成
func NewPredictionService(invoker EndpointInvoker, endpoint string, timeout time.Duration) *PredictionService {
	return &PredictionService{
		invoker:  invoker,
		endpoint: endpoint,
		timeout:  timeout,
		now:      time.Now,
	}
}

// WithClock はリクエストのstart時刻に使う時計を差し替えます。
func (ps *PredictionService) WithClock(now func() time.Time) *PredictionService {
	ps.now = now
	return ps
}

// BuildRequest はカテゴリコードからエンドポイントのリクエストを組み立てます。
func BuildRequest(start time.Time, dayCode, weatherCode, dishCode int) models.EndpointRequest {
	return models.EndpointRequest{
		Instances: []models.EndpointInstance{{
			Start:  start.Format(startTimeLayout),
			Target: []float64{0},
			Cat:    []int{dayCode, weatherCode, dishCode},
		}},
		Configuration: models.EndpointConfiguration{
			NumSamples:  numSamples,
			OutputTypes: []string{"mean", "quantiles"},
			Quantiles:   []string{lowQuantile, highQuantile},
		},
	}
}

// Predict はラベルをエンコードしてエンドポイントを呼び出し、平均とP10/P90を整数で返します。
func (ps *PredictionService) Predict(ctx context.Context, day, weather, dish string) (*models.PredictionResult, error) {
	dayCode, err := DayTable.Encode(day)
	if err != nil {
		return nil, err
	}
	weatherCode, err := WeatherTable.Encode(weather)
	if err != nil {
		return nil, err
	}
	dishCode, err := DishTable.Encode(dish)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(BuildRequest(ps.now(), dayCode, weatherCode, dishCode))
	if err != nil {
		return nil, fmt.Errorf("リクエストのエンコードに失敗: %w", err)
	}

	callCtx := ctx
	if ps.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, ps.timeout)
		defer cancel()
	}

	start := time.Now()
	body, err := ps.invoker.Invoke(callCtx, payload)
	if err != nil {
		logger.Warn(logger.Fields{
			"endpoint":   ps.endpoint,
			"cat":        []int{dayCode, weatherCode, dishCode},
			"latency_ms": time.Since(start).Milliseconds(),
			"error":      err.Error(),
		}, "prediction endpoint call failed")
		return nil, NewTransportError(ps.endpoint, err)
	}

	mean, low, high, err := parsePrediction(body)
	if err != nil {
		logger.Warn(logger.Fields{"endpoint": ps.endpoint, "error": err.Error()}, "unexpected prediction response")
		return nil, err
	}

	result := &models.PredictionResult{
		Dish: dish,
		Day:  day,
		Mean: roundToInt(mean),
		Low:  roundToInt(low),
		High: roundToInt(high),
	}
	logger.Debug(logger.Fields{
		"endpoint":   ps.endpoint,
		"day":        day,
		"weather":    weather,
		"dish":       dish,
		"mean":       result.Mean,
		"latency_ms": time.Since(start).Milliseconds(),
	}, "prediction completed")
	return result, nil
}

// parsePrediction は最初の予測のmean[0]、quantiles["0.1"][0]、quantiles["0.9"][0]を取り出します。
func parsePrediction(body []byte) (mean, low, high float64, err error) {
	var resp models.EndpointResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, 0, 0, NewResponseShapeError("response is not valid JSON", err)
	}
	if len(resp.Predictions) == 0 {
		return 0, 0, 0, NewResponseShapeError("predictions is empty", nil)
	}
	pred := resp.Predictions[0]
	if mean, err = firstValue(pred.Mean, "predictions[0].mean"); err != nil {
		return 0, 0, 0, err
	}
	if low, err = firstValue(pred.Quantiles[lowQuantile], fmt.Sprintf("predictions[0].quantiles[%q]", lowQuantile)); err != nil {
		return 0, 0, 0, err
	}
	if high, err = firstValue(pred.Quantiles[highQuantile], fmt.Sprintf("predictions[0].quantiles[%q]", highQuantile)); err != nil {
		return 0, 0, 0, err
	}
	return mean, low, high, nil
}

// firstValue は先頭要素を返す。空配列、null、intに収まらない値はレスポンス形式エラー。
func firstValue(values []*float64, field string) (float64, error) {
	if len(values) == 0 {
		return 0, NewResponseShapeError(field+" is empty", nil)
	}
	if values[0] == nil {
		return 0, NewResponseShapeError(field+"[0] is null", nil)
	}
	v := *values[0]
	if math.IsNaN(v) || math.Abs(v) >= math.MaxInt {
		return 0, NewResponseShapeError(fmt.Sprintf("%s[0] is out of range: %g", field, v), nil)
	}
	return v, nil
}

// roundToInt 0.5は0から遠い方へ丸める
func roundToInt(v float64) int {
	return int(math.Round(v))
}
