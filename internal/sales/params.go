package sales

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "shopmetrics/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Params is the immutable set of analysis parameters for a pipeline run.
// Nil bounds leave that side of the date range open. A bound with a year but
// no month covers the whole year. ComparisonYear selects the reference year
// for the year-over-year summary block; nil defaults to the year before the
// newest one in range.
type Params struct {
	StartYear      *int `json:"start_year,omitempty" validate:"omitempty,min=2000,max=2100"`
	StartMonth     *int `json:"start_month,omitempty" validate:"omitempty,min=1,max=12"`
	EndYear        *int `json:"end_year,omitempty" validate:"omitempty,min=2000,max=2100"`
	EndMonth       *int `json:"end_month,omitempty" validate:"omitempty,min=1,max=12"`
	ComparisonYear *int `json:"comparison_year,omitempty" validate:"omitempty,min=2000,max=2100"`
}

// Validate checks field ranges and the cross-field rules a date range must
// satisfy. A month bound without its year is meaningless and rejected.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return apperrors.NewAppValidationError(err.Error())
	}

	if p.StartMonth != nil && p.StartYear == nil {
		return apperrors.NewAppValidationError("start_month requires start_year")
	}
	if p.EndMonth != nil && p.EndYear == nil {
		return apperrors.NewAppValidationError("end_month requires end_year")
	}

	start, startSet := p.startKey()
	end, endSet := p.endKey()
	if startSet && endSet && start > end {
		return apperrors.NewAppValidationError(
			fmt.Sprintf("date range start %s is after end %s", p.startLabel(), p.endLabel()))
	}

	return nil
}

// Bounded reports whether the params restrict the date range at all
func (p Params) Bounded() bool {
	return p.StartYear != nil || p.EndYear != nil
}

// startKey returns the inclusive lower period key. A year without a month
// starts at January.
func (p Params) startKey() (int, bool) {
	if p.StartYear == nil {
		return 0, false
	}
	month := 1
	if p.StartMonth != nil {
		month = *p.StartMonth
	}
	return periodKey(*p.StartYear, month), true
}

// endKey returns the inclusive upper period key. A year without a month ends
// at December.
func (p Params) endKey() (int, bool) {
	if p.EndYear == nil {
		return 0, false
	}
	month := 12
	if p.EndMonth != nil {
		month = *p.EndMonth
	}
	return periodKey(*p.EndYear, month), true
}

func (p Params) startLabel() string {
	return boundLabel(p.StartYear, p.StartMonth)
}

func (p Params) endLabel() string {
	return boundLabel(p.EndYear, p.EndMonth)
}

func boundLabel(year, month *int) string {
	if year == nil {
		return "unbounded"
	}
	if month == nil {
		return fmt.Sprintf("%04d", *year)
	}
	return fmt.Sprintf("%04d-%02d", *year, *month)
}

// periodKey maps a (year, month) pair onto a single ordered axis so that
// cross-year ranges compare correctly. Comparing year and month
// independently would wrongly exclude January 2023 from a range like
// November 2022 through February 2023.
func periodKey(year, month int) int {
	return year*12 + (month - 1)
}
