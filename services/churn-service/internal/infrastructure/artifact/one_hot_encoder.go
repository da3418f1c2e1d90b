package artifact

import (
	"fmt"
)

// Unknown-category policies.
const (
	HandleUnknownError  = "error"
	HandleUnknownIgnore = "ignore"
)

type encoderDocument struct {
	header
	Version        string     `json:"version"`
	HandleUnknown  string     `json:"handle_unknown"`
	FeatureNamesIn []string   `json:"feature_names_in"`
	Categories     [][]string `json:"categories"`
}

// OneHotEncoder expands each categorical column into one indicator per fitted
// category, in the fitted category order.
type OneHotEncoder struct {
	version       string
	columns       []string
	categories    [][]string
	index         []map[string]int
	width         int
	ignoreUnknown bool
}

// NewOneHotEncoder creates a fitted encoder.
func NewOneHotEncoder(version string, columns []string, categories [][]string, handleUnknown string) (*OneHotEncoder, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("one-hot encoder has no columns")
	}
	if len(categories) != len(columns) {
		return nil, fmt.Errorf("one-hot encoder: %d columns, %d category lists", len(columns), len(categories))
	}
	if err := uniqueColumns(columns); err != nil {
		return nil, fmt.Errorf("one-hot encoder: %w", err)
	}

	e := &OneHotEncoder{
		version:    version,
		columns:    append([]string(nil), columns...),
		categories: make([][]string, len(categories)),
		index:      make([]map[string]int, len(categories)),
	}
	switch handleUnknown {
	case "", HandleUnknownError:
	case HandleUnknownIgnore:
		e.ignoreUnknown = true
	default:
		return nil, fmt.Errorf("one-hot encoder: unsupported handle_unknown %q", handleUnknown)
	}

	for i, cats := range categories {
		if len(cats) == 0 {
			return nil, fmt.Errorf("one-hot encoder: column %s has no categories", columns[i])
		}
		idx := make(map[string]int, len(cats))
		for j, c := range cats {
			if _, dup := idx[c]; dup {
				return nil, fmt.Errorf("one-hot encoder: column %s lists category %q twice", columns[i], c)
			}
			idx[c] = j
		}
		e.categories[i] = append([]string(nil), cats...)
		e.index[i] = idx
		e.width += len(cats)
	}
	return e, nil
}

// DecodeOneHotEncoder decodes a one_hot_encoder document.
func DecodeOneHotEncoder(data []byte) (*OneHotEncoder, error) {
	var doc encoderDocument
	if err := decode(data, KindOneHotEncoder, &doc); err != nil {
		return nil, err
	}
	return NewOneHotEncoder(doc.Version, doc.FeatureNamesIn, doc.Categories, doc.HandleUnknown)
}

func (e *OneHotEncoder) InputColumns() []string { return append([]string(nil), e.columns...) }
func (e *OneHotEncoder) OutputWidth() int       { return e.width }
func (e *OneHotEncoder) Version() string        { return e.version }

// Categories returns the fitted categories of column, or nil when the column is
// not encoded.
func (e *OneHotEncoder) Categories(column string) []string {
	for i, c := range e.columns {
		if c == column {
			return append([]string(nil), e.categories[i]...)
		}
	}
	return nil
}

// Transform encodes values, given in InputColumns order. An unseen category is
// an error unless the encoder was fitted with handle_unknown=ignore, in which
// case its indicators are all zero.
func (e *OneHotEncoder) Transform(values []string) ([]float64, error) {
	if len(values) != len(e.columns) {
		return nil, fmt.Errorf("one-hot encoder: got %d values, want %d", len(values), len(e.columns))
	}
	out := make([]float64, e.width)
	offset := 0
	for i, v := range values {
		j, ok := e.index[i][v]
		switch {
		case ok:
			out[offset+j] = 1
		case !e.ignoreUnknown:
			return nil, fmt.Errorf("unknown category %q for column %s", v, e.columns[i])
		}
		offset += len(e.categories[i])
	}
	return out, nil
}
