package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRange is returned when a domino end is outside 0..6.
var ErrInvalidRange = errors.New("domino value out of range")

// Code is a machine-readable reason attached to every validation failure.
type Code string

const (
	CodeBiddingComplete        Code = "BIDDING_COMPLETE"
	CodeBidTooLow              Code = "BID_TOO_LOW"
	CodeBidTooHigh             Code = "BID_TOO_HIGH"
	CodeBidNotHigher           Code = "BID_NOT_HIGHER"
	CodeMissingTrump           Code = "MISSING_TRUMP"
	CodeInvalidMarkBid         Code = "INVALID_MARK_BID"
	CodeInvalidBidType         Code = "INVALID_BID_TYPE"
	CodeInsufficientDoubles    Code = "INSUFFICIENT_DOUBLES_FOR_PLUNGE"
	CodeInvalidSpecialContract Code = "INVALID_SPECIAL_CONTRACT"
	CodeContractNotAllowed     Code = "CONTRACT_NOT_ALLOWED"
	CodeNotYourTurn            Code = "NOT_YOUR_TURN"
	CodeInvalidPhase           Code = "INVALID_PHASE"
	CodeUnknownPlayer          Code = "UNKNOWN_PLAYER"
	CodeDominoNotInHand        Code = "DOMINO_NOT_IN_HAND"
	CodeMustFollowSuit         Code = "MUST_FOLLOW_SUIT"
	CodePlayerSittingOut       Code = "PLAYER_SITTING_OUT"
	CodeGameComplete           Code = "GAME_COMPLETE"
	CodeInvalidDomino          Code = "INVALID_DOMINO"
	CodeInvalidPlayer          Code = "INVALID_PLAYER"
	CodeInvalidPosition        Code = "INVALID_POSITION"
	CodeInvalidPlayerCount     Code = "INVALID_PLAYER_COUNT"
	CodeDuplicatePosition      Code = "DUPLICATE_POSITION"
	CodeDuplicatePlayer        Code = "DUPLICATE_PLAYER"
	CodeDealerNotFound         Code = "DEALER_NOT_FOUND"
	CodeInvalidLobbyState      Code = "INVALID_LOBBY_STATE"
	CodeInvalidPhaseTransition Code = "INVALID_PHASE_TRANSITION"
	CodeNegativeScore          Code = "NEGATIVE_SCORE"
	CodeDominoCountMismatch    Code = "DOMINO_COUNT_MISMATCH"
	CodeDuplicateDomino        Code = "DUPLICATE_DOMINO"
	CodePointTotalMismatch     Code = "POINT_TOTAL_MISMATCH"
	CodeTrumpHierarchyMismatch Code = "TRUMP_HIERARCHY_MISMATCH"
	CodeInvalidPartnership     Code = "INVALID_PARTNERSHIP"
	CodeInvalidTrick           Code = "INVALID_TRICK"
)

// Category separates player-facing rule violations from engine or caller defects.
type Category string

const (
	// CategoryRuleViolation is an expected outcome of an illegal action.
	CategoryRuleViolation Category = "RULE_VIOLATION"

	// CategoryInvalidGameState marks an internal inconsistency that should be logged loudly.
	CategoryInvalidGameState Category = "INVALID_GAME_STATE"
)

// Category maps a code to its class.
func (c Code) Category() Category {
	switch c {
	case CodeDominoCountMismatch,
		CodeDuplicateDomino,
		CodePointTotalMismatch,
		CodeTrumpHierarchyMismatch,
		CodeInvalidPartnership,
		CodeInvalidTrick,
		CodeNegativeScore,
		CodeInvalidPhaseTransition:
		return CategoryInvalidGameState
	default:
		return CategoryRuleViolation
	}
}

// RuleError is a single validation failure.
type RuleError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDefect reports whether the error signals an invariant defect.
func (e *RuleError) IsDefect() bool {
	return e.Code.Category() == CategoryInvalidGameState
}

func newRuleError(code Code, field, format string, args ...any) RuleError {
	return RuleError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidationError carries every error of a failed ValidationResult.
type ValidationError struct {
	Errors []RuleError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, re := range e.Errors {
		msgs = append(msgs, re.Error())
	}
	return strings.Join(msgs, "; ")
}

// Codes lists the codes in order.
func (e *ValidationError) Codes() []Code {
	out := make([]Code, 0, len(e.Errors))
	for _, re := range e.Errors {
		out = append(out, re.Code)
	}
	return out
}

// Has reports whether the error contains the code.
func (e *ValidationError) Has(code Code) bool {
	for _, re := range e.Errors {
		if re.Code == code {
			return true
		}
	}
	return false
}

// IsDefect reports whether err is, or wraps, an invariant defect.
func IsDefect(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		for i := range ve.Errors {
			if ve.Errors[i].IsDefect() {
				return true
			}
		}
		return false
	}
	var re *RuleError
	if errors.As(err, &re) {
		return re.IsDefect()
	}
	return false
}

// CodeOf returns the first code carried by err, or "" when err is not a validation failure.
func CodeOf(err error) Code {
	var ve *ValidationError
	if errors.As(err, &ve) && len(ve.Errors) > 0 {
		return ve.Errors[0].Code
	}
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}
