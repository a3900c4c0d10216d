package services

import (
	"fmt"
	"strings"

	"food-demand-chat-api/pkg/models"
)

// Answer はキーワードの部分一致で定型文を選び、キャッシュされた予測値を埋め込みます。
// 判定順は固定で、最初に一致したものを返す（"low"と"range"を両方含む場合は"low"）。
func Answer(question string, p models.PredictionResult) string {
	q := strings.ToLower(question)

	switch {
	case strings.Contains(q, "mean") || strings.Contains(q, "expected"):
		return fmt.Sprintf("The mean predicted sales for %s on %s is %d.", p.Dish, p.Day, p.Mean)
	case strings.Contains(q, "low"):
		return fmt.Sprintf("The low estimate (P10) for %s on %s is %d.", p.Dish, p.Day, p.Low)
	case strings.Contains(q, "high"):
		return fmt.Sprintf("The high estimate (P90) for %s on %s is %d.", p.Dish, p.Day, p.High)
	case strings.Contains(q, "range") || strings.Contains(q, "estimate"):
		return fmt.Sprintf("The predicted range for %s on %s is %d–%d (P10–P90), mean %d.", p.Dish, p.Day, p.Low, p.High, p.Mean)
	default:
		return fmt.Sprintf("The predicted mean for %s on %s is %d, range %d-%d.", p.Dish, p.Day, p.Mean, p.Low, p.High)
	}
}
