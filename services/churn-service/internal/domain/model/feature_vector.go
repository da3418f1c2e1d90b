package model

// FeatureVector is the encoded, model-ready representation of a CustomerRecord:
// scaled numeric columns first, one-hot categorical columns after.
type FeatureVector struct {
	values       []float64
	numericWidth int
}

// NewFeatureVector concatenates the numeric and categorical blocks.
func NewFeatureVector(numeric, categorical []float64) FeatureVector {
	values := make([]float64, 0, len(numeric)+len(categorical))
	values = append(values, numeric...)
	values = append(values, categorical...)
	return FeatureVector{values: values, numericWidth: len(numeric)}
}

func (v FeatureVector) Len() int          { return len(v.values) }
func (v FeatureVector) NumericWidth() int { return v.numericWidth }
func (v FeatureVector) IsZero() bool      { return v.values == nil }

// Values returns a copy of the underlying features.
func (v FeatureVector) Values() []float64 {
	return append([]float64(nil), v.values...)
}
