package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
)

// ScoredModel is a named fitted classifier.
type ScoredModel struct {
	Classifier port.Classifier
	Name       string
}

// ModelRegistry is the immutable set of classifiers sharing one feature contract.
// It is safe for concurrent use once constructed.
//
// Only the feature count is checked against the encoder. Classifiers carry no
// column names, so a registry fitted on a different column order still loads
// and silently produces wrong scores. The registry and the fitted transformers
// must therefore be versioned and shipped as one unit (see the artifact
// manifest version).
type ModelRegistry struct {
	models      map[string]ScoredModel
	names       []string
	numFeatures int
}

// NewModelRegistry builds a registry from already-loaded models. Every model
// must declare the same feature count.
func NewModelRegistry(models ...ScoredModel) (*ModelRegistry, error) {
	if len(models) == 0 {
		return nil, &LoadError{Artifact: "models", Err: errors.New("no models configured")}
	}

	r := &ModelRegistry{models: make(map[string]ScoredModel, len(models))}
	for _, m := range models {
		if m.Name == "" || m.Classifier == nil {
			return nil, &LoadError{Artifact: "models", Err: errors.New("model name and classifier are required")}
		}
		if _, dup := r.models[m.Name]; dup {
			return nil, &LoadError{Artifact: m.Name, Err: errors.New("duplicate model name")}
		}
		n := m.Classifier.NumFeatures()
		if r.numFeatures == 0 {
			r.numFeatures = n
		} else if n != r.numFeatures {
			return nil, &LoadError{
				Artifact: m.Name,
				Err:      fmt.Errorf("expects %d features, other models expect %d", n, r.numFeatures),
			}
		}
		r.models[m.Name] = m
		r.names = append(r.names, m.Name)
	}
	sort.Strings(r.names)

	return r, nil
}

// LoadRegistry loads every model in specs (name -> artifact key) concurrently.
// The first failure cancels the remaining loads and is returned as a LoadError.
func LoadRegistry(ctx context.Context, specs map[string]string, loader port.ClassifierLoader) (*ModelRegistry, error) {
	if len(specs) == 0 {
		return nil, &LoadError{Artifact: "models", Err: errors.New("no models configured")}
	}

	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	loaded := make([]ScoredModel, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			clf, err := loader.LoadClassifier(gctx, specs[name])
			if err != nil {
				var loadErr *LoadError
				if errors.As(err, &loadErr) {
					return err
				}
				return &LoadError{Artifact: specs[name], Err: fmt.Errorf("model %q: %w", name, err)}
			}
			loaded[i] = ScoredModel{Name: name, Classifier: clf}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewModelRegistry(loaded...)
}

// Resolve returns the model registered under name.
func (r *ModelRegistry) Resolve(name string) (ScoredModel, error) {
	m, ok := r.models[name]
	if !ok {
		return ScoredModel{}, &UnknownModelError{Name: name, Available: r.Names()}
	}
	return m, nil
}

// Names returns the registered model names in sorted order.
func (r *ModelRegistry) Names() []string {
	return append([]string(nil), r.names...)
}

// NumFeatures is the feature count shared by every registered model.
func (r *ModelRegistry) NumFeatures() int {
	return r.numFeatures
}
