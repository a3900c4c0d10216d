package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTablesEncodeFixedCodes(t *testing.T) {
	testCases := []struct {
		table *CategoryTable
		codes map[string]int
	}{
		{DayTable, map[string]int{"friday": 0, "monday": 1, "saturday": 2, "sunday": 3, "thursday": 4, "tuesday": 5, "wednesday": 6}},
		{WeatherTable, map[string]int{"cloudy": 0, "rainy": 1, "sunny": 2}},
		{DishTable, map[string]int{"biryani": 0, "burger": 1, "pasta": 2, "pizza": 3, "salad": 4, "sandwich": 5}},
	}

	for _, tc := range testCases {
		assert.Len(t, tc.table.Labels(), len(tc.codes), tc.table.Name())
		for label, want := range tc.codes {
			got, err := Encode(tc.table, label)
			require.NoError(t, err)
			assert.Equal(t, want, got, "%s/%s", tc.table.Name(), label)
		}
	}
}

func TestEncodeUnknownLabel(t *testing.T) {
	for _, label := range []string{"funday", "Monday", " monday", ""} {
		_, err := DayTable.Encode(label)
		require.Error(t, err, label)
		assert.Equal(t, ErrCodeEncoding, ErrorCodeOf(err))
		assert.True(t, errors.Is(err, ErrUnknownLabel))
	}

	_, err := DishTable.Encode("sushi")
	assert.Contains(t, err.Error(), `unknown dish "sushi"`)
}

func TestLabelsOrderedByCode(t *testing.T) {
	assert.Equal(t, []string{"friday", "monday", "saturday", "sunday", "thursday", "tuesday", "wednesday"}, DayTable.Labels())
	assert.Equal(t, []string{"cloudy", "rainy", "sunny"}, WeatherTable.Labels())
	assert.Equal(t, []string{"biryani", "burger", "pasta", "pizza", "salad", "sandwich"}, DishTable.Labels())

	// 返り値を変更してもテーブルに影響しない
	labels := WeatherTable.Labels()
	labels[0] = "snowy"
	assert.Equal(t, "cloudy", WeatherTable.Labels()[0])
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "monday", NormalizeLabel("  Monday "))
	assert.Equal(t, "pizza", NormalizeLabel("PIZZA"))
}
