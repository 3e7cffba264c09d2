package wallet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultClassifier(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, DefaultClassifier(nil))

	// Explicit refusals, as the known signers word them
	for _, msg := range []string{
		"User rejected the transaction",
		"Transaction was cancelled",
		"request declined in the wallet",
		"Access denied",
	} {
		assert.Equal(t, OutcomeUserCancelled, DefaultClassifier(errors.New(msg)), msg)
	}

	// Everything else could hide an authorized transfer
	for _, msg := range []string{
		"bridge connection closed while awaiting transfer result",
		"transfer request expired without a result: context deadline exceeded",
		"i/o timeout",
	} {
		assert.Equal(t, OutcomeIndeterminate, DefaultClassifier(errors.New(msg)), msg)
	}
}

func TestClassify(t *testing.T) {
	outcome := Classify(DefaultClassifier, "te6ccgEBAQEA", nil)
	assert.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "te6ccgEBAQEA", outcome.Boc)
	assert.Nil(t, outcome.Detail)

	err := errors.New("User rejected the transaction")
	outcome = Classify(DefaultClassifier, "", err)
	assert.Equal(t, OutcomeUserCancelled, outcome.Kind)
	assert.Empty(t, outcome.Boc)
	assert.Equal(t, err, outcome.Detail)
}

// A stricter policy can be swapped in without touching the flow
func TestClassifierOverride(t *testing.T) {
	pessimistic := func(err error) OutcomeKind {
		if err == nil {
			return OutcomeSuccess
		}
		return OutcomeIndeterminate
	}

	outcome := Classify(pessimistic, "", errors.New("User rejected the transaction"))
	assert.Equal(t, OutcomeIndeterminate, outcome.Kind)
}
