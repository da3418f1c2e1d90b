package artifact

import (
	"fmt"
)

type scalerDocument struct {
	header
	Version        string    `json:"version"`
	FeatureNamesIn []string  `json:"feature_names_in"`
	Mean           []float64 `json:"mean"`
	Scale          []float64 `json:"scale"`
}

// StandardScaler standardizes numeric columns as (x - mean) / scale.
type StandardScaler struct {
	version string
	columns []string
	mean    []float64
	scale   []float64
}

// NewStandardScaler creates a fitted scaler. A zero scale is treated as 1, which
// is how a constant training column is handled.
func NewStandardScaler(version string, columns []string, mean, scale []float64) (*StandardScaler, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("standard scaler has no columns")
	}
	if len(mean) != len(columns) || len(scale) != len(columns) {
		return nil, fmt.Errorf("standard scaler: %d columns, %d means, %d scales", len(columns), len(mean), len(scale))
	}
	if err := uniqueColumns(columns); err != nil {
		return nil, fmt.Errorf("standard scaler: %w", err)
	}
	if !allFinite(mean...) || !allFinite(scale...) {
		return nil, fmt.Errorf("standard scaler: mean and scale must be finite")
	}

	s := &StandardScaler{
		version: version,
		columns: append([]string(nil), columns...),
		mean:    append([]float64(nil), mean...),
		scale:   make([]float64, len(scale)),
	}
	for i, v := range scale {
		if v == 0 {
			v = 1
		}
		s.scale[i] = v
	}
	return s, nil
}

// DecodeStandardScaler decodes a standard_scaler document.
func DecodeStandardScaler(data []byte) (*StandardScaler, error) {
	var doc scalerDocument
	if err := decode(data, KindStandardScaler, &doc); err != nil {
		return nil, err
	}
	return NewStandardScaler(doc.Version, doc.FeatureNamesIn, doc.Mean, doc.Scale)
}

func (s *StandardScaler) InputColumns() []string { return append([]string(nil), s.columns...) }
func (s *StandardScaler) OutputWidth() int       { return len(s.columns) }
func (s *StandardScaler) Version() string        { return s.version }

// Transform standardizes values, given in InputColumns order.
func (s *StandardScaler) Transform(values []float64) ([]float64, error) {
	if len(values) != len(s.columns) {
		return nil, fmt.Errorf("standard scaler: got %d values, want %d", len(values), len(s.columns))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

func uniqueColumns(columns []string) error {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c == "" {
			return fmt.Errorf("empty column name")
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("duplicate column %s", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}
