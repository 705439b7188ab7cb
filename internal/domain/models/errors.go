package models

import (
	"errors"
	"fmt"
)

// RuleKind identifies a specific validation rule violated by an input.
// Kinds are stable identifiers; callers discriminate on them to render
// remediation text, so never rename an existing kind.
type RuleKind string

const (
	RuleInvalidBalance           RuleKind = "INVALID_BALANCE"
	RuleUnknownStage             RuleKind = "UNKNOWN_STAGE"
	RuleRiskPercentageOutOfRange RuleKind = "RISK_PERCENTAGE_OUT_OF_RANGE"
	RuleLeverageExceeded         RuleKind = "LEVERAGE_EXCEEDED"
	RuleRiskLevelOutOfRange      RuleKind = "RISK_LEVEL_OUT_OF_RANGE"
	RuleMarginTypeNotAllowed     RuleKind = "MARGIN_TYPE_NOT_ALLOWED"
	RulePositionSizeTooSmall     RuleKind = "POSITION_SIZE_TOO_SMALL"
	RulePositionSizeTooLarge     RuleKind = "POSITION_SIZE_TOO_LARGE"
	RuleInvalidConfig            RuleKind = "INVALID_CONFIG"
	RuleInvalidPosition          RuleKind = "INVALID_POSITION"
)

// RuleError is a deterministic validation failure. It is never transient,
// so callers must not retry; they either fix the input or surface the kind.
type RuleError struct {
	Kind    RuleKind
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewRuleError creates a RuleError with a formatted message.
func NewRuleError(kind RuleKind, format string, a ...interface{}) *RuleError {
	return &RuleError{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

// RuleKindOf extracts the rule kind from an error chain.
func RuleKindOf(err error) (RuleKind, bool) {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}
