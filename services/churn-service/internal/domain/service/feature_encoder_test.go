package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/service"
)

func TestEncode(t *testing.T) {
	scaler, encoder := testTransformers()

	t.Run("numeric block then one-hot block", func(t *testing.T) {
		vec, err := service.Encode(testRecord(nil), scaler, encoder)
		require.NoError(t, err)

		assert.Equal(t, scaler.OutputWidth()+encoder.OutputWidth(), vec.Len())
		assert.Equal(t, 3, vec.NumericWidth())
		assert.Equal(t, []float64{22.5, 2500, 0.4, 0, 1, 0, 1, 0, 0}, vec.Values())
	})

	t.Run("deterministic", func(t *testing.T) {
		rec := testRecord(nil)
		first, err := service.Encode(rec, scaler, encoder)
		require.NoError(t, err)
		second, err := service.Encode(rec, scaler, encoder)
		require.NoError(t, err)
		assert.Equal(t, first.Values(), second.Values())
	})

	t.Run("extra attributes are ignored", func(t *testing.T) {
		rec := testRecord(func(num map[string]float64, _ map[string]string) {
			num[model.ColCreditLimit] = 12000
		})
		vec, err := service.Encode(rec, scaler, encoder)
		require.NoError(t, err)
		assert.Equal(t, 9, vec.Len())
	})
}

func TestEncode_Errors(t *testing.T) {
	scaler, encoder := testTransformers()

	tests := []struct {
		name       string
		record     *model.CustomerRecord
		mutate     func(s *stubScaler, e *stubEncoder)
		wantColumn string
	}{
		{
			name: "missing categorical column",
			record: testRecord(func(_ map[string]float64, cat map[string]string) {
				delete(cat, model.ColCardCategory)
			}),
			wantColumn: model.ColCardCategory,
		},
		{
			name: "missing numeric column",
			record: testRecord(func(num map[string]float64, _ map[string]string) {
				delete(num, model.ColCustomerAge)
			}),
			wantColumn: model.ColCustomerAge,
		},
		{
			name: "categorical where numeric expected",
			record: testRecord(func(num map[string]float64, cat map[string]string) {
				delete(num, model.ColCustomerAge)
				cat[model.ColCustomerAge] = "forty"
			}),
			wantColumn: model.ColCustomerAge,
		},
		{
			name: "numeric where categorical expected",
			record: testRecord(func(num map[string]float64, cat map[string]string) {
				delete(cat, model.ColGender)
				num[model.ColGender] = 1
			}),
			wantColumn: model.ColGender,
		},
		{
			name: "unknown category",
			record: testRecord(func(_ map[string]float64, cat map[string]string) {
				cat[model.ColCardCategory] = "Diamond"
			}),
		},
		{
			name:   "transformer version mismatch",
			record: testRecord(nil),
			mutate: func(_ *stubScaler, e *stubEncoder) { e.version = "2023.11" },
		},
		{
			name:   "scaler output width mismatch",
			record: testRecord(nil),
			mutate: func(s *stubScaler, _ *stubEncoder) { s.width = 4 },
		},
		{
			name:   "nil record",
			record: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, e := *scaler, *encoder
			if tt.mutate != nil {
				tt.mutate(&s, &e)
			}

			vec, err := service.Encode(tt.record, &s, &e)
			require.Error(t, err)
			assert.True(t, vec.IsZero(), "no partial vector")

			var encErr *service.EncodingError
			require.True(t, errors.As(err, &encErr))
			if tt.wantColumn != "" {
				assert.Equal(t, tt.wantColumn, encErr.Column)
			}
		})
	}
}

func TestFeatureEncoder(t *testing.T) {
	scaler, encoder := testTransformers()

	_, err := service.NewFeatureEncoder(nil, encoder)
	assert.Error(t, err)

	fe, err := service.NewFeatureEncoder(scaler, encoder)
	require.NoError(t, err)
	assert.Equal(t, 9, fe.Width())

	vec, err := fe.Encode(testRecord(nil))
	require.NoError(t, err)
	assert.Equal(t, fe.Width(), vec.Len())
}
