package services

import (
	"fmt"
	"io"
	"time"

	"food-demand-chat-api/pkg/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Forecast"

var exportHeaders = []string{"Dish", "Day", "Mean", "Low (P10)", "High (P90)", "Generated At"}

// ExportService 予測結果をExcelファイルとして出力します。
type ExportService struct{}

// NewExportService 新しいExportServiceを作成
func NewExportService() *ExportService {
	return &ExportService{}
}

// WriteWorkbook はヘッダー行と予測1行を持つForecastシートを書き出します。
func (es *ExportService) WriteWorkbook(w io.Writer, result models.PredictionResult, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("シート名の設定に失敗: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("ヘッダー行の書き込みに失敗: %w", err)
	}
	row := []interface{}{
		result.Dish,
		result.Day,
		result.Mean,
		result.Low,
		result.High,
		generatedAt.Format(startTimeLayout),
	}
	if err := f.SetSheetRow(exportSheet, "A2", &row); err != nil {
		return fmt.Errorf("データ行の書き込みに失敗: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("ヘッダースタイルの作成に失敗: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "F1", style); err != nil {
		return fmt.Errorf("ヘッダースタイルの適用に失敗: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("Excelファイルの出力に失敗: %w", err)
	}
	return nil
}

// ExportFileName ダウンロード用のファイル名
func ExportFileName(result models.PredictionResult) string {
	return fmt.Sprintf("forecast_%s_%s.xlsx", result.Dish, result.Day)
}
