package wallet

import "strings"

// OutcomeKind resolves the inherent ambiguity of an external signer
// call: on some error paths the user may already have authorized the
// transfer, so a thrown error is not a definite failure.
type OutcomeKind int

const (
	// The signer returned a transaction reference
	OutcomeSuccess OutcomeKind = iota

	// The user explicitly refused, nothing was sent
	OutcomeUserCancelled

	// Neither success nor cancellation can be proven. Never retried
	// silently: a blind retry risks a double transfer.
	OutcomeIndeterminate
)

type Outcome struct {
	Kind OutcomeKind

	// Transaction reference, set only on success
	Boc string

	// The signer error behind a non-success outcome
	Detail error
}

// Classifier decides what a signer error means. It is a policy, kept
// overridable because the classification is heuristic by nature.
type Classifier func(err error) OutcomeKind

// Markers the known signer implementations put into explicit-refusal
// errors
var cancelMarkers = []string{"cancel", "reject", "declin", "denied"}

// DefaultClassifier sniffs the error text. Anything that does not read
// as an explicit user refusal is indeterminate.
func DefaultClassifier(err error) OutcomeKind {
	if err == nil {
		return OutcomeSuccess
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range cancelMarkers {
		if strings.Contains(msg, marker) {
			return OutcomeUserCancelled
		}
	}
	return OutcomeIndeterminate
}

// Classify builds the full outcome for a SendTransfer result
func Classify(classifier Classifier, boc string, err error) Outcome {
	if err == nil {
		return Outcome{Kind: OutcomeSuccess, Boc: boc}
	}
	return Outcome{Kind: classifier(err), Detail: err}
}
