package scoring

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the input's enum fields and that counters are non-negative
func (in InvestorScoreInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid score input: %w", err)
	}
	if in.CheckSizeMin != nil && in.CheckSizeMax != nil && *in.CheckSizeMin > *in.CheckSizeMax {
		return fmt.Errorf("invalid score input: check_size_min exceeds check_size_max")
	}
	return nil
}
