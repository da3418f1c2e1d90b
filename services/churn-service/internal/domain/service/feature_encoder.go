package service

import (
	"fmt"

	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
)

// FeatureEncoder binds a fitted scaler and encoder that were trained together.
type FeatureEncoder struct {
	scaler  port.NumericTransformer
	encoder port.CategoricalTransformer
}

// NewFeatureEncoder creates a FeatureEncoder.
func NewFeatureEncoder(scaler port.NumericTransformer, encoder port.CategoricalTransformer) (*FeatureEncoder, error) {
	if scaler == nil || encoder == nil {
		return nil, fmt.Errorf("scaler and encoder are required")
	}
	return &FeatureEncoder{scaler: scaler, encoder: encoder}, nil
}

// Width is the length of every vector this encoder produces.
func (e *FeatureEncoder) Width() int {
	return e.scaler.OutputWidth() + e.encoder.OutputWidth()
}

// Encode converts record into a feature vector.
func (e *FeatureEncoder) Encode(record *model.CustomerRecord) (model.FeatureVector, error) {
	return Encode(record, e.scaler, e.encoder)
}

// Encode converts record into the fixed-order vector expected by every model:
// the scaler's columns in the scaler's order, transformed, followed by the
// encoder's columns in the encoder's order, one-hot encoded. Column names come
// only from the fitted transformers.
func Encode(record *model.CustomerRecord, scaler port.NumericTransformer, encoder port.CategoricalTransformer) (model.FeatureVector, error) {
	if record == nil {
		return model.FeatureVector{}, &EncodingError{Reason: "record is required"}
	}
	if scaler.Version() != encoder.Version() {
		return model.FeatureVector{}, &EncodingError{
			Reason: fmt.Sprintf("transformer version mismatch: scaler %q, encoder %q", scaler.Version(), encoder.Version()),
		}
	}

	numericCols := scaler.InputColumns()
	numeric := make([]float64, len(numericCols))
	for i, col := range numericCols {
		attr, ok := record.Lookup(col)
		if !ok {
			return model.FeatureVector{}, &EncodingError{Column: col, Reason: "missing attribute"}
		}
		if attr.Kind() != model.KindNumeric {
			return model.FeatureVector{}, &EncodingError{Column: col, Reason: "expected numeric attribute, got " + attr.Kind().String()}
		}
		numeric[i] = attr.Number()
	}

	categoricalCols := encoder.InputColumns()
	categorical := make([]string, len(categoricalCols))
	for i, col := range categoricalCols {
		attr, ok := record.Lookup(col)
		if !ok {
			return model.FeatureVector{}, &EncodingError{Column: col, Reason: "missing attribute"}
		}
		if attr.Kind() != model.KindCategorical {
			return model.FeatureVector{}, &EncodingError{Column: col, Reason: "expected categorical attribute, got " + attr.Kind().String()}
		}
		categorical[i] = attr.Text()
	}

	scaled, err := scaler.Transform(numeric)
	if err != nil {
		return model.FeatureVector{}, &EncodingError{Reason: "numeric transform failed", Err: err}
	}
	if len(scaled) != scaler.OutputWidth() {
		return model.FeatureVector{}, &EncodingError{
			Reason: fmt.Sprintf("scaler produced %d values, declared width %d", len(scaled), scaler.OutputWidth()),
		}
	}

	encoded, err := encoder.Transform(categorical)
	if err != nil {
		return model.FeatureVector{}, &EncodingError{Reason: "categorical transform failed", Err: err}
	}
	if len(encoded) != encoder.OutputWidth() {
		return model.FeatureVector{}, &EncodingError{
			Reason: fmt.Sprintf("encoder produced %d values, declared width %d", len(encoded), encoder.OutputWidth()),
		}
	}

	return model.NewFeatureVector(scaled, encoded), nil
}
