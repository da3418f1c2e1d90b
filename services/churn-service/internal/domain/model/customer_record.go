package model

import (
	"fmt"
	"math"
	"sort"
)

// Canonical column names of the customer profile.
const (
	ColCustomerAge            = "Customer_Age"
	ColGender                 = "Gender"
	ColDependentCount         = "Dependent_count"
	ColEducationLevel         = "Education_Level"
	ColMaritalStatus          = "Marital_Status"
	ColIncomeCategory         = "Income_Category"
	ColCardCategory           = "Card_Category"
	ColMonthsOnBook           = "Months_on_book"
	ColTotalRelationshipCount = "Total_Relationship_Count"
	ColMonthsInactive         = "Months_Inactive_12_mon"
	ColContactsCount          = "Contacts_Count_12_mon"
	ColCreditLimit            = "Credit_Limit"
	ColTotalRevolvingBal      = "Total_Revolving_Bal"
	ColAvgOpenToBuy           = "Avg_Open_To_Buy"
	ColTotalAmtChngQ4Q1       = "Total_Amt_Chng_Q4_Q1"
	ColTotalTransAmt          = "Total_Trans_Amt"
	ColTotalTransCt           = "Total_Trans_Ct"
	ColTotalCtChngQ4Q1        = "Total_Ct_Chng_Q4_Q1"
	ColAvgUtilizationRatio    = "Avg_Utilization_Ratio"
)

// Quarter-over-quarter change ratios are not collected from the user; every
// record carries these values unless the caller supplies its own.
const (
	DefaultAmtChngQ4Q1 = 0.8
	DefaultCtChngQ4Q1  = 0.8
)

// AttributeKind tells numeric attributes from categorical ones.
type AttributeKind int

const (
	KindNumeric AttributeKind = iota + 1
	KindCategorical
)

func (k AttributeKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Attribute is one named value of a CustomerRecord.
type Attribute struct {
	text   string
	number float64
	kind   AttributeKind
}

func (a Attribute) Kind() AttributeKind { return a.kind }
func (a Attribute) Number() float64     { return a.number }
func (a Attribute) Text() string        { return a.text }

// CustomerRecord is an immutable mapping from column name to attribute.
type CustomerRecord struct {
	attrs map[string]Attribute
}

// NewCustomerRecord builds a record from numeric and categorical attributes and
// fills in the quarter-over-quarter defaults when absent. A column may appear in
// only one of the two maps and numeric values must be finite.
func NewCustomerRecord(numeric map[string]float64, categorical map[string]string) (*CustomerRecord, error) {
	attrs := make(map[string]Attribute, len(numeric)+len(categorical)+2)

	for name, v := range numeric {
		if name == "" {
			return nil, fmt.Errorf("attribute name is required")
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("attribute %s must be finite, got %v", name, v)
		}
		attrs[name] = Attribute{number: v, kind: KindNumeric}
	}
	for name, v := range categorical {
		if name == "" {
			return nil, fmt.Errorf("attribute name is required")
		}
		if _, dup := attrs[name]; dup {
			return nil, fmt.Errorf("attribute %s supplied as both numeric and categorical", name)
		}
		attrs[name] = Attribute{text: v, kind: KindCategorical}
	}

	if _, ok := attrs[ColTotalAmtChngQ4Q1]; !ok {
		attrs[ColTotalAmtChngQ4Q1] = Attribute{number: DefaultAmtChngQ4Q1, kind: KindNumeric}
	}
	if _, ok := attrs[ColTotalCtChngQ4Q1]; !ok {
		attrs[ColTotalCtChngQ4Q1] = Attribute{number: DefaultCtChngQ4Q1, kind: KindNumeric}
	}

	return &CustomerRecord{attrs: attrs}, nil
}

// Lookup returns the attribute stored under name.
func (r *CustomerRecord) Lookup(name string) (Attribute, bool) {
	a, ok := r.attrs[name]
	return a, ok
}

// Number returns a numeric attribute, failing when it is absent or categorical.
func (r *CustomerRecord) Number(name string) (float64, error) {
	a, ok := r.attrs[name]
	if !ok {
		return 0, fmt.Errorf("attribute %s is missing", name)
	}
	if a.kind != KindNumeric {
		return 0, fmt.Errorf("attribute %s is %s, want numeric", name, a.kind)
	}
	return a.number, nil
}

// Columns returns the sorted attribute names.
func (r *CustomerRecord) Columns() []string {
	names := make([]string, 0, len(r.attrs))
	for name := range r.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
