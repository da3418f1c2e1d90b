package model

import (
	"fmt"
	"sort"
)

// LabelMapping translates localized display labels of categorical columns to the
// labels the encoder was fitted on, and back. Each column's table is a bijection.
type LabelMapping struct {
	toModel   map[string]map[string]string
	toDisplay map[string]map[string]string
}

// NewLabelMapping validates and indexes a column -> display -> model table.
// Empty labels and two display labels sharing one model label are rejected.
func NewLabelMapping(table map[string]map[string]string) (*LabelMapping, error) {
	m := &LabelMapping{
		toModel:   make(map[string]map[string]string, len(table)),
		toDisplay: make(map[string]map[string]string, len(table)),
	}

	for column, entries := range table {
		if column == "" {
			return nil, fmt.Errorf("label mapping: column name is required")
		}
		forward := make(map[string]string, len(entries))
		reverse := make(map[string]string, len(entries))
		for display, modelLabel := range entries {
			if display == "" || modelLabel == "" {
				return nil, fmt.Errorf("label mapping: column %s has an empty label", column)
			}
			if prev, dup := reverse[modelLabel]; dup {
				return nil, fmt.Errorf("label mapping: column %s maps both %q and %q to %q",
					column, prev, display, modelLabel)
			}
			forward[display] = modelLabel
			reverse[modelLabel] = display
		}
		m.toModel[column] = forward
		m.toDisplay[column] = reverse
	}

	return m, nil
}

// ToModel translates a display label. Values without a mapping pass through
// unchanged so the encoder can reject unknown categories.
func (m *LabelMapping) ToModel(column, display string) string {
	if m == nil {
		return display
	}
	if v, ok := m.toModel[column][display]; ok {
		return v
	}
	return display
}

// ToDisplay translates a model label back to its display label.
func (m *LabelMapping) ToDisplay(column, modelLabel string) string {
	if m == nil {
		return modelLabel
	}
	if v, ok := m.toDisplay[column][modelLabel]; ok {
		return v
	}
	return modelLabel
}

// Columns returns the mapped columns in sorted order.
func (m *LabelMapping) Columns() []string {
	if m == nil {
		return nil
	}
	cols := make([]string, 0, len(m.toModel))
	for c := range m.toModel {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// ModelLabels returns the model labels mapped for column in sorted order.
func (m *LabelMapping) ModelLabels(column string) []string {
	if m == nil {
		return nil
	}
	labels := make([]string, 0, len(m.toDisplay[column]))
	for l := range m.toDisplay[column] {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}
