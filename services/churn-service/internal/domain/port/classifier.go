package port

import "context"

// Classifier is a fitted binary churn classifier. PredictProba returns one
// probability per entry of Classes, in the same order.
type Classifier interface {
	NumFeatures() int
	Classes() []string
	Predict(features []float64) (int, error)
	PredictProba(features []float64) ([]float64, error)
}

// ClassifierLoader materializes a classifier from an artifact key.
type ClassifierLoader interface {
	LoadClassifier(ctx context.Context, key string) (Classifier, error)
}

// ArtifactStore fetches opaque artifact bytes by key.
type ArtifactStore interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}
