package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"food-demand-chat-api/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{"predictions":[{"mean":[42.4,40.0],"quantiles":{"0.1":[30.2,29.0],"0.9":[55.6,50.0]}}]}`

type fakeInvoker struct {
	body     []byte
	err      error
	block    bool
	calls    int
	payloads [][]byte
}

func (f *fakeInvoker) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	f.calls++
	f.payloads = append(f.payloads, payload)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 4, 9, 5, 7, 0, time.Local)
}

func newTestPredictionService(inv EndpointInvoker) *PredictionService {
	return NewPredictionService(inv, "food-demand", time.Second).WithClock(fixedClock)
}

func TestPredictParsesAndRounds(t *testing.T) {
	inv := &fakeInvoker{body: []byte(sampleResponse)}
	ps := newTestPredictionService(inv)

	result, err := ps.Predict(context.Background(), "monday", "sunny", "pizza")

	require.NoError(t, err)
	assert.Equal(t, models.PredictionResult{Dish: "pizza", Day: "monday", Mean: 42, Low: 30, High: 56}, *result)
	assert.Equal(t, 1, inv.calls)
}

func TestPredictBuildsEndpointPayload(t *testing.T) {
	inv := &fakeInvoker{body: []byte(sampleResponse)}
	ps := newTestPredictionService(inv)

	_, err := ps.Predict(context.Background(), "monday", "sunny", "pizza")
	require.NoError(t, err)
	require.Len(t, inv.payloads, 1)

	assert.JSONEq(t, `{
		"instances": [{"start": "2024-03-04 09:05:07", "target": [0], "cat": [1, 2, 3]}],
		"configuration": {"num_samples": 50, "output_types": ["mean", "quantiles"], "quantiles": ["0.1", "0.9"]}
	}`, string(inv.payloads[0]))
}

func TestPredictUnknownLabelDoesNotCallEndpoint(t *testing.T) {
	inv := &fakeInvoker{body: []byte(sampleResponse)}
	ps := newTestPredictionService(inv)

	for _, tc := range [][3]string{
		{"someday", "sunny", "pizza"},
		{"monday", "snowy", "pizza"},
		{"monday", "sunny", "sushi"},
	} {
		_, err := ps.Predict(context.Background(), tc[0], tc[1], tc[2])
		assert.Equal(t, ErrCodeEncoding, ErrorCodeOf(err), "%v", tc)
	}
	assert.Equal(t, 0, inv.calls)
}

func TestPredictTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	ps := newTestPredictionService(&fakeInvoker{err: cause})

	_, err := ps.Predict(context.Background(), "friday", "rainy", "burger")

	require.Error(t, err)
	assert.Equal(t, ErrCodeTransport, ErrorCodeOf(err))
	assert.True(t, errors.Is(err, cause))
}

func TestPredictTimeoutIsTransportError(t *testing.T) {
	ps := NewPredictionService(&fakeInvoker{block: true}, "food-demand", 10*time.Millisecond)

	_, err := ps.Predict(context.Background(), "friday", "rainy", "burger")

	require.Error(t, err)
	assert.Equal(t, ErrCodeTransport, ErrorCodeOf(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPredictResponseShapeErrors(t *testing.T) {
	testCases := map[string]string{
		"not json":         `<html>oops</html>`,
		"no predictions":   `{"predictions":[]}`,
		"missing mean":     `{"predictions":[{"quantiles":{"0.1":[1],"0.9":[2]}}]}`,
		"empty mean":       `{"predictions":[{"mean":[],"quantiles":{"0.1":[1],"0.9":[2]}}]}`,
		"missing p10":      `{"predictions":[{"mean":[1],"quantiles":{"0.9":[2]}}]}`,
		"empty p90":        `{"predictions":[{"mean":[1],"quantiles":{"0.1":[1],"0.9":[]}}]}`,
		"missing quantile": `{"predictions":[{"mean":[1]}]}`,
		"null mean":        `{"predictions":[{"mean":[null],"quantiles":{"0.1":[1],"0.9":[2]}}]}`,
		"null p10":         `{"predictions":[{"mean":[1],"quantiles":{"0.1":[null],"0.9":[2]}}]}`,
		"null p90":         `{"predictions":[{"mean":[1],"quantiles":{"0.1":[1],"0.9":[null]}}]}`,
		"huge mean":        `{"predictions":[{"mean":[1e20],"quantiles":{"0.1":[1],"0.9":[2]}}]}`,
		"huge p10":         `{"predictions":[{"mean":[1],"quantiles":{"0.1":[-1e20],"0.9":[2]}}]}`,
	}

	for name, body := range testCases {
		ps := newTestPredictionService(&fakeInvoker{body: []byte(body)})
		_, err := ps.Predict(context.Background(), "sunday", "cloudy", "salad")
		assert.Equal(t, ErrCodeResponseShape, ErrorCodeOf(err), name)
	}
}

func TestRoundToInt(t *testing.T) {
	testCases := []struct {
		in   float64
		want int
	}{
		{42.4, 42},
		{55.6, 56},
		{2.5, 3},
		{3.5, 4},
		{-2.5, -3},
		{0.49, 0},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, roundToInt(tc.in), "%v", tc.in)
	}
}

func TestBuildRequestMarshalsTargetAsInteger(t *testing.T) {
	payload, err := json.Marshal(BuildRequest(fixedClock(), 0, 0, 0))
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"target":[0]`)
}
