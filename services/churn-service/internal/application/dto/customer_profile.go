package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CustomerProfile is the typed form a dashboard user fills in for one customer.
// Categorical fields carry display labels of the active profile; they are
// translated to model labels by ToRecord. Numeric fields are pointers so an
// omitted attribute is reported instead of read as zero.
type CustomerProfile struct {
	Gender                 string  `json:"gender" validate:"required"`
	EducationLevel         string  `json:"education_level" validate:"required"`
	MaritalStatus          string  `json:"marital_status" validate:"required"`
	IncomeCategory         string  `json:"income_category" validate:"required"`
	CardCategory           string  `json:"card_category" validate:"required"`
	CreditLimit            *float64 `json:"credit_limit" validate:"required,gte=1000,lte=50000"`
	TotalRevolvingBal      *float64 `json:"total_revolving_bal" validate:"required,gte=0,lte=5000,ltefield=CreditLimit"`
	TotalTransAmt          *float64 `json:"total_trans_amt" validate:"required,gte=0,lte=50000"`
	AvgUtilizationRatio    *float64 `json:"avg_utilization_ratio" validate:"required,gte=0,lte=1"`
	CustomerAge            *int     `json:"customer_age" validate:"required,gte=18,lte=80"`
	DependentCount         *int     `json:"dependent_count" validate:"required,gte=0,lte=5"`
	MonthsOnBook           *int     `json:"months_on_book" validate:"required,gte=0,lte=60"`
	TotalRelationshipCount *int     `json:"total_relationship_count" validate:"required,gte=1,lte=6"`
	MonthsInactive         *int     `json:"months_inactive_12_mon" validate:"required,gte=0,lte=6"`
	ContactsCount          *int     `json:"contacts_count_12_mon" validate:"required,gte=0,lte=6"`
	TotalTransCt           *int     `json:"total_trans_ct" validate:"required,gte=0,lte=200"`
}

// ValidationError lists every field of a CustomerProfile outside its range.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid customer profile: " + strings.Join(e.Fields, "; ")
}

// Validate checks every field against the ranges the dashboard form allows.
func (p CustomerProfile) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate customer profile: %w", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, describe(fe))
	}
	return &ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	case "ltefield":
		return fe.Field() + " must not exceed credit_limit"
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// Float returns a pointer to v, for building a CustomerProfile in code.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for building a CustomerProfile in code.
func Int(v int) *int { return &v }

// ToRecord converts the profile into a CustomerRecord with canonical column
// names. Display labels are translated through labels; Avg_Open_To_Buy is
// derived as Credit_Limit - Total_Revolving_Bal. A profile with an omitted
// numeric field yields a ValidationError.
func (p CustomerProfile) ToRecord(labels *model.LabelMapping) (*model.CustomerRecord, error) {
	var missing []string
	num := func(name string, v *float64) float64 {
		if v == nil {
			missing = append(missing, name+" is required")
			return 0
		}
		return *v
	}
	count := func(name string, v *int) float64 {
		if v == nil {
			missing = append(missing, name+" is required")
			return 0
		}
		return float64(*v)
	}

	creditLimit := num("credit_limit", p.CreditLimit)
	revolvingBal := num("total_revolving_bal", p.TotalRevolvingBal)
	numeric := map[string]float64{
		model.ColCustomerAge:            count("customer_age", p.CustomerAge),
		model.ColDependentCount:         count("dependent_count", p.DependentCount),
		model.ColMonthsOnBook:           count("months_on_book", p.MonthsOnBook),
		model.ColTotalRelationshipCount: count("total_relationship_count", p.TotalRelationshipCount),
		model.ColMonthsInactive:         count("months_inactive_12_mon", p.MonthsInactive),
		model.ColContactsCount:          count("contacts_count_12_mon", p.ContactsCount),
		model.ColCreditLimit:            creditLimit,
		model.ColTotalRevolvingBal:      revolvingBal,
		model.ColAvgOpenToBuy:           creditLimit - revolvingBal,
		model.ColTotalTransAmt:          num("total_trans_amt", p.TotalTransAmt),
		model.ColTotalTransCt:           count("total_trans_ct", p.TotalTransCt),
		model.ColAvgUtilizationRatio:    num("avg_utilization_ratio", p.AvgUtilizationRatio),
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}
	categorical := map[string]string{
		model.ColGender:         labels.ToModel(model.ColGender, p.Gender),
		model.ColEducationLevel: labels.ToModel(model.ColEducationLevel, p.EducationLevel),
		model.ColMaritalStatus:  labels.ToModel(model.ColMaritalStatus, p.MaritalStatus),
		model.ColIncomeCategory: labels.ToModel(model.ColIncomeCategory, p.IncomeCategory),
		model.ColCardCategory:   labels.ToModel(model.ColCardCategory, p.CardCategory),
	}

	record, err := model.NewCustomerRecord(numeric, categorical)
	if err != nil {
		return nil, fmt.Errorf("build customer record: %w", err)
	}
	return record, nil
}
