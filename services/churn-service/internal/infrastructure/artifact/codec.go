package artifact

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
)

// FormatVersion is the only artifact document version this build understands.
const FormatVersion = 1

// Document kinds.
const (
	KindStandardScaler     = "standard_scaler"
	KindOneHotEncoder      = "one_hot_encoder"
	KindGradientBoosting   = "gradient_boosting"
	KindXGBoost            = "xgboost"
	KindRandomForest       = "random_forest"
	KindLogisticRegression = "logistic_regression"
)

type header struct {
	Kind          string `json:"kind"`
	FormatVersion int    `json:"format_version"`
}

func decodeHeader(data []byte) (header, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return header{}, fmt.Errorf("failed to decode artifact header: %w", err)
	}
	if h.Kind == "" {
		return header{}, fmt.Errorf("artifact kind is missing")
	}
	if h.FormatVersion != FormatVersion {
		return header{}, fmt.Errorf("artifact %s has format_version %d, want %d", h.Kind, h.FormatVersion, FormatVersion)
	}
	return h, nil
}

// decode unmarshals data into doc after checking it is a kind document.
func decode(data []byte, kind string, doc any) error {
	h, err := decodeHeader(data)
	if err != nil {
		return err
	}
	if h.Kind != kind {
		return fmt.Errorf("artifact kind is %q, want %q", h.Kind, kind)
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	return nil
}

// DecodeClassifier decodes any supported classifier document.
func DecodeClassifier(data []byte) (port.Classifier, error) {
	h, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	switch h.Kind {
	case KindGradientBoosting, KindXGBoost:
		return DecodeBoostedTrees(data)
	case KindRandomForest:
		return DecodeRandomForest(data)
	case KindLogisticRegression:
		return DecodeLogisticRegression(data)
	default:
		return nil, fmt.Errorf("unsupported classifier kind %q", h.Kind)
	}
}

// binaryClasses validates the class labels of a binary classifier. Index 0 is
// the churn class.
func binaryClasses(classes []string) ([]string, error) {
	if len(classes) != 2 {
		return nil, fmt.Errorf("classifier must declare exactly 2 classes, got %d", len(classes))
	}
	if classes[0] == "" || classes[1] == "" || classes[0] == classes[1] {
		return nil, fmt.Errorf("classifier classes must be distinct and non-empty, got %q", classes)
	}
	return append([]string(nil), classes...), nil
}

func checkFeatures(features []float64, want int) error {
	if len(features) != want {
		return fmt.Errorf("got %d features, want %d", len(features), want)
	}
	return nil
}

// marginProba converts the log-odds of classes[1] into a distribution.
func marginProba(margin float64) []float64 {
	p1 := 1 / (1 + math.Exp(-margin))
	return []float64{1 - p1, p1}
}

// argmax returns the index of the largest probability; ties go to the lower index.
func argmax(proba []float64) int {
	best := 0
	for i := 1; i < len(proba); i++ {
		if proba[i] > proba[best] {
			best = i
		}
	}
	return best
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
