package domain

import "fmt"

// ValidationResult collects errors, which block a transition, and warnings,
// which do not. Context carries free-form details for logging.
type ValidationResult struct {
	IsValid  bool           `json:"isValid"`
	Errors   []RuleError    `json:"errors"`
	Warnings []RuleError    `json:"warnings"`
	Context  map[string]any `json:"context,omitempty"`
}

// NewValidationResult returns an empty, valid result.
func NewValidationResult() ValidationResult {
	return ValidationResult{IsValid: true}
}

// AddError records a blocking failure.
func (r *ValidationResult) AddError(code Code, field, format string, args ...any) {
	r.Errors = append(r.Errors, newRuleError(code, field, format, args...))
	r.IsValid = false
}

// AddWarning records a non-blocking observation.
func (r *ValidationResult) AddWarning(code Code, field, format string, args ...any) {
	r.Warnings = append(r.Warnings, newRuleError(code, field, format, args...))
}

// WithContext attaches a context value and returns the result.
func (r ValidationResult) WithContext(key string, value any) ValidationResult {
	ctx := make(map[string]any, len(r.Context)+1)
	for k, v := range r.Context {
		ctx[k] = v
	}
	ctx[key] = value
	r.Context = ctx
	return r
}

// Err returns nil for a valid result, else a *ValidationError with every error.
func (r ValidationResult) Err() error {
	if r.IsValid && len(r.Errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: append([]RuleError(nil), r.Errors...)}
}

// HasDefect reports whether any error is an invariant defect.
func (r ValidationResult) HasDefect() bool {
	for i := range r.Errors {
		if r.Errors[i].IsDefect() {
			return true
		}
	}
	return false
}

// CombineValidationResults merges results. The merged result is valid only if
// every input is; errors, warnings and context keys are concatenated in order.
func CombineValidationResults(results ...ValidationResult) ValidationResult {
	out := NewValidationResult()
	for _, r := range results {
		if !r.IsValid || len(r.Errors) > 0 {
			out.IsValid = false
		}
		out.Errors = append(out.Errors, r.Errors...)
		out.Warnings = append(out.Warnings, r.Warnings...)
		for k, v := range r.Context {
			if out.Context == nil {
				out.Context = map[string]any{}
			}
			out.Context[k] = v
		}
	}
	return out
}

func ruleViolation(code Code, field, format string, args ...any) error {
	return &RuleError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}
