package artifact

import (
	"context"

	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
)

// ClassifierLoader fetches classifier documents from a store and decodes them.
type ClassifierLoader struct {
	store port.ArtifactStore
}

// NewClassifierLoader creates a ClassifierLoader backed by store.
func NewClassifierLoader(store port.ArtifactStore) *ClassifierLoader {
	return &ClassifierLoader{store: store}
}

// LoadClassifier implements port.ClassifierLoader.
func (l *ClassifierLoader) LoadClassifier(ctx context.Context, key string) (port.Classifier, error) {
	data, err := l.store.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	return DecodeClassifier(data)
}
