package model

// Lex V2 request shapes, per the dialog code hook input format
// (https://docs.aws.amazon.com/lexv2/latest/dg/lambda-input-format.html).

// Invocation sources for a dialog turn.
const (
	SourceDialogCodeHook      = "DialogCodeHook"
	SourceFulfillmentCodeHook = "FulfillmentCodeHook"
)

// Confirmation states of an intent.
const (
	ConfirmationNone      = "None"
	ConfirmationConfirmed = "Confirmed"
	ConfirmationDenied    = "Denied"
)

// Intent lifecycle states.
const (
	IntentInProgress = "InProgress"
	IntentFulfilled  = "Fulfilled"
)

// Routed intent names. Anything else falls through to the RAG path.
const (
	IntentVerifyIdentity  = "VerifyIdentity"
	IntentLoanApplication = "LoanApplication"
	IntentLoanCalculator  = "LoanCalculator"
)

// DialogRequest is one inbound turn from the dialog engine.
type DialogRequest struct {
	SessionState     SessionState `json:"sessionState"`
	InvocationSource string       `json:"invocationSource"`
	InputTranscript  string       `json:"inputTranscript"`
}

// SessionState carries the intent under negotiation plus per-session attributes.
type SessionState struct {
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
	Intent            Intent            `json:"intent"`
}

// Intent is the recognized user goal with its slot assignments.
type Intent struct {
	Name              string           `json:"name"`
	Slots             map[string]*Slot `json:"slots,omitempty"`
	ConfirmationState string           `json:"confirmationState,omitempty"`
	State             string           `json:"state,omitempty"`
}

// Slot is a single slot assignment as recognized by the dialog engine.
type Slot struct {
	Shape string    `json:"shape,omitempty"`
	Value SlotValue `json:"value"`
}

// SlotValue carries the raw utterance plus the engine's resolutions.
type SlotValue struct {
	OriginalValue    string   `json:"originalValue,omitempty"`
	ResolvedValues   []string `json:"resolvedValues,omitempty"`
	InterpretedValue string   `json:"interpretedValue,omitempty"`
}

// Resolve returns the effective value of a slot, preferring the interpreted
// value when the engine resolved anything, then the original utterance.
// The second return is false when the slot carries no usable value.
func (s *Slot) Resolve() (string, bool) {
	if s == nil {
		return "", false
	}
	if len(s.Value.ResolvedValues) > 0 && s.Value.InterpretedValue != "" {
		return s.Value.InterpretedValue, true
	}
	if s.Value.OriginalValue != "" {
		return s.Value.OriginalValue, true
	}
	return "", false
}

// ResolveSlot looks a slot up by name and resolves it.
func (i *Intent) ResolveSlot(name string) (string, bool) {
	return i.Slots[name].Resolve()
}

// ClearSlot nulls out one slot so the dialog engine re-elicits it.
func (i *Intent) ClearSlot(name string) {
	if i.Slots != nil {
		i.Slots[name] = nil
	}
}

// SetSlot writes a scalar slot value, mirroring the engine's own slot shape.
func (i *Intent) SetSlot(name, value string) {
	if i.Slots == nil {
		i.Slots = map[string]*Slot{}
	}
	i.Slots[name] = &Slot{
		Shape: "Scalar",
		Value: SlotValue{
			OriginalValue:    value,
			ResolvedValues:   []string{value},
			InterpretedValue: value,
		},
	}
}

// Attributes returns the session attributes map, never nil.
func (s *SessionState) Attributes() map[string]string {
	if s.SessionAttributes == nil {
		s.SessionAttributes = map[string]string{}
	}
	return s.SessionAttributes
}
