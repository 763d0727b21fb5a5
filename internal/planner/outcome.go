package planner

import "fmt"

// Phase distinguishes automatic placement from interactive moves.
type Phase string

const (
	// PhasePrefill is the automatic initial placement. ASK outcomes are final.
	PhasePrefill Phase = "prefill"

	// PhaseMove is a user-driven move or swap. ASK outcomes may be confirmed.
	PhaseMove Phase = "move"
)

// Kind is the verdict of a single constraint check.
type Kind int

const (
	// KindOK allows the placement.
	KindOK Kind = iota

	// KindSplit allows only part of the item's quantity.
	KindSplit

	// KindAsk requires confirmation.
	KindAsk

	// KindBlock forbids the placement.
	KindBlock
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindSplit:
		return "split"
	case KindAsk:
		return "ask"
	case KindBlock:
		return "block"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rule ids that are not tied to a configurable constraint.
const (
	RuleEngineID        = "R-ENGINE"
	RuleUnknownID       = "R-UNKNOWN"
	RuleSingleProductID = "R-SINGLE-PRODUCT"
	RuleCapacityID      = "R-CAP-RAW"
)

// Violation describes why a placement was refused. It is reporting data only.
type Violation struct {
	RuleID  string         `json:"ruleId"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements error so violations can be wrapped by callers.
func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.RuleID, v.Message)
}

// Outcome is the result of one constraint check.
type Outcome struct {
	Kind Kind

	// SplitQty and RemainderQty are set for KindSplit, in finished quantity.
	SplitQty     float64
	RemainderQty float64

	// AskMessage is the confirmation question for KindAsk.
	AskMessage string

	// Violation is set for every kind except KindOK.
	Violation *Violation
}

// OK is the passing outcome.
func OK() Outcome {
	return Outcome{Kind: KindOK}
}

// Split allows splitQty of the item and leaves remainderQty unplaced.
func Split(splitQty, remainderQty float64, v *Violation) Outcome {
	return Outcome{Kind: KindSplit, SplitQty: splitQty, RemainderQty: remainderQty, Violation: v}
}

// Ask requests confirmation with the given question.
func Ask(message string, v *Violation) Outcome {
	return Outcome{Kind: KindAsk, AskMessage: message, Violation: v}
}

// Block forbids the placement.
func Block(v *Violation) Outcome {
	return Outcome{Kind: KindBlock, Violation: v}
}

// violationOf returns the outcome's violation, or a generic one when the
// rule did not supply any.
func violationOf(out Outcome) *Violation {
	if out.Violation != nil {
		return out.Violation
	}
	msg := out.AskMessage
	if msg == "" {
		msg = fmt.Sprintf("placement rejected (%s)", out.Kind)
	}
	return &Violation{RuleID: RuleUnknownID, Title: "Placement rejected", Message: msg}
}

func engineViolation(msg string, details map[string]any) *Violation {
	return &Violation{RuleID: RuleEngineID, Title: "Invalid move", Message: msg, Details: details}
}
