package financial

import (
	"sort"
	"strings"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

// Ratios maps a fixed ratio key to its value
type Ratios map[string]float64

// Ratio names a balance sheet ratio and how it is printed
type Ratio struct {
	Key   string
	Label string
}

// Ratio keys, in report order
const (
	RatioCurrent      = "currentRatio"
	RatioQuick        = "quickRatio"
	RatioCash         = "cashRatio"
	RatioDebtToEquity = "debtToEquity"
	RatioDebtToAssets = "debtToAssets"
	RatioEquity       = "equityRatio"
)

// RatioOrder is the order ratios appear in prompts. Every key is required.
var RatioOrder = []Ratio{
	{Key: RatioCurrent, Label: "Current Ratio"},
	{Key: RatioQuick, Label: "Quick Ratio"},
	{Key: RatioCash, Label: "Cash Ratio"},
	{Key: RatioDebtToEquity, Label: "Debt to Equity"},
	{Key: RatioDebtToAssets, Label: "Debt to Assets"},
	{Key: RatioEquity, Label: "Equity Ratio"},
}

// Validate fails when a required ratio is missing or an unknown key is present
func (r Ratios) Validate() error {
	known := make(map[string]struct{}, len(RatioOrder))
	var missing []string
	for _, ratio := range RatioOrder {
		known[ratio.Key] = struct{}{}
		if _, ok := r[ratio.Key]; !ok {
			missing = append(missing, ratio.Key)
		}
	}

	var unknown []string
	for key := range r {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)

	var errs errors.MultiError
	if len(missing) > 0 {
		errs.Add(errors.NewValidationError("balanceSheet.ratios", "missing required ratios: "+strings.Join(missing, ", "), nil))
	}
	if len(unknown) > 0 {
		errs.Add(errors.NewValidationError("balanceSheet.ratios", "unknown ratios: "+strings.Join(unknown, ", "), nil))
	}
	return errs.ToError()
}

// Validate checks the parts of the request the prompt cannot be built without
func (r *AnalysisRequest) Validate() error {
	if r == nil || r.BalanceSheet == nil {
		return errors.NewValidationError("balanceSheet", "is required", nil)
	}
	return r.BalanceSheet.Ratios.Validate()
}
