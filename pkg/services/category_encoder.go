package services

import (
	"sort"
	"strings"
)

// CategoryTable は表示ラベルからモデルのカテゴリコードへの固定マッピングです。
// 学習済みモデルのインデックスと一致している必要があるため変更しないこと。
type CategoryTable struct {
	name   string
	codes  map[string]int
	labels []string
}

func newCategoryTable(name string, codes map[string]int) *CategoryTable {
	labels := make([]string, 0, len(codes))
	for label := range codes {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return codes[labels[i]] < codes[labels[j]]
	})
	return &CategoryTable{name: name, codes: codes, labels: labels}
}

var (
	DayTable = newCategoryTable("day", map[string]int{
		"friday": 0, "monday": 1, "saturday": 2, "sunday": 3,
		"thursday": 4, "tuesday": 5, "wednesday": 6,
	})
	WeatherTable = newCategoryTable("weather", map[string]int{
		"cloudy": 0, "rainy": 1, "sunny": 2,
	})
	DishTable = newCategoryTable("dish", map[string]int{
		"biryani": 0, "burger": 1, "pasta": 2, "pizza": 3, "salad": 4, "sandwich": 5,
	})
)

// Name はテーブル名（"day", "weather", "dish"）を返します。
func (t *CategoryTable) Name() string {
	return t.name
}

// Labels はコード順のラベル一覧のコピーを返します。
func (t *CategoryTable) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// Encode はラベルを完全一致でコードに変換します。
func (t *CategoryTable) Encode(label string) (int, error) {
	code, ok := t.codes[label]
	if !ok {
		return 0, NewEncodingError(t.name, label)
	}
	return code, nil
}

// Encode encodes label with table.
func Encode(table *CategoryTable, label string) (int, error) {
	return table.Encode(label)
}

// NormalizeLabel はユーザー入力をテーブルのキー形式に揃えます。
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
