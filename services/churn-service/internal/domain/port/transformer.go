package port

// NumericTransformer is a fitted scaler for the numeric columns of a record.
// Column order and output width are fixed by training and never change.
type NumericTransformer interface {
	InputColumns() []string
	OutputWidth() int
	Version() string
	Transform(values []float64) ([]float64, error)
}

// CategoricalTransformer is a fitted encoder for the categorical columns of a record.
type CategoricalTransformer interface {
	InputColumns() []string
	OutputWidth() int
	Version() string
	Transform(values []string) ([]float64, error)
}
