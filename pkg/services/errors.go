package services

import (
	"errors"
	"fmt"

	"food-demand-chat-api/pkg/models"
)

// ErrorCode 予測・チャット処理のエラー分類
type ErrorCode string

const (
	ErrCodeEncoding        ErrorCode = "ENCODING_ERROR"
	ErrCodeTransport       ErrorCode = "TRANSPORT_ERROR"
	ErrCodeResponseShape   ErrorCode = "RESPONSE_SHAPE_ERROR"
	ErrCodePrecondition    ErrorCode = "PRECONDITION_ERROR"
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
)

// ErrUnknownLabel はカテゴリ表に存在しないラベルを示します。
var ErrUnknownLabel = errors.New("unknown label")

// ForecastError は呼び出し側（シェル）で表示に変換されるエラーです。
type ForecastError struct {
	Code    ErrorCode
	Message string
	Details string
	Err     error
}

func (e *ForecastError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ForecastError) Unwrap() error {
	return e.Err
}

// Severity はシェルでの表示スタイルを返します。前提条件違反のみ警告扱い。
func (e *ForecastError) Severity() models.Severity {
	if e.Code == ErrCodePrecondition {
		return models.SeverityWarning
	}
	return models.SeverityError
}

// NewEncodingError 未知のカテゴリラベル
func NewEncodingError(table, label string) *ForecastError {
	return &ForecastError{
		Code:    ErrCodeEncoding,
		Message: fmt.Sprintf("unknown %s %q", table, label),
		Details: fmt.Sprintf("table: %s", table),
		Err:     ErrUnknownLabel,
	}
}

// NewTransportError エンドポイント到達不可・タイムアウト・非成功レスポンス
func NewTransportError(endpoint string, err error) *ForecastError {
	return &ForecastError{
		Code:    ErrCodeTransport,
		Message: "prediction endpoint call failed",
		Details: fmt.Sprintf("endpoint: %s, error: %v", endpoint, err),
		Err:     err,
	}
}

// NewResponseShapeError 期待したフィールドがないレスポンス
func NewResponseShapeError(details string, err error) *ForecastError {
	return &ForecastError{
		Code:    ErrCodeResponseShape,
		Message: "unexpected prediction response",
		Details: details,
		Err:     err,
	}
}

// NewPreconditionError ユーザーへの警告として表示される前提条件エラー
func NewPreconditionError(message string) *ForecastError {
	return &ForecastError{
		Code:    ErrCodePrecondition,
		Message: message,
	}
}

// NewSessionNotFoundError 存在しない、または期限切れのセッション
func NewSessionNotFoundError(sessionID string) *ForecastError {
	return &ForecastError{
		Code:    ErrCodeSessionNotFound,
		Message: "session not found",
		Details: fmt.Sprintf("sessionId: %s", sessionID),
	}
}

// ErrorCodeOf はエラーチェーンからErrorCodeを取り出します。該当なしは空文字。
func ErrorCodeOf(err error) ErrorCode {
	var fe *ForecastError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// DisplayMessageOf はエラーを表示用メッセージに変換します。
func DisplayMessageOf(err error) models.DisplayMessage {
	var fe *ForecastError
	if errors.As(err, &fe) {
		if fe.Code == ErrCodePrecondition {
			return models.DisplayMessage{Severity: fe.Severity(), Text: fe.Message}
		}
		return models.DisplayMessage{Severity: fe.Severity(), Text: fe.Error()}
	}
	return models.DisplayMessage{Severity: models.SeverityError, Text: err.Error()}
}
