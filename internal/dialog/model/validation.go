package model

// ValidationResult is the outcome of one per-intent validation pass.
// Exactly one violated slot per failed pass: the first failing slot in the
// intent's fixed check order wins.
type ValidationResult struct {
	Valid        bool
	ViolatedSlot string
	Message      string
}

// Invalid builds a failed result for one slot with a re-prompt message.
func Invalid(slot, message string) ValidationResult {
	return ValidationResult{Valid: false, ViolatedSlot: slot, Message: message}
}

// Valid builds a passing result.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}
