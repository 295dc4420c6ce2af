// Package respond maps decided dialog actions to the wire format understood
// by the dialog engine. All builders are pure; the engine decides, respond
// serializes.
package respond

import (
	"github.com/octank-fsi/dialog-agent/internal/dialog/model"
)

// Active contexts carried on every stateful response.
const (
	contextName        = "intentContext"
	contextTTLSeconds  = 86400
	contextTurnsToLive = 20
)

func intentContext(attrs map[string]string) []model.ActiveContext {
	return []model.ActiveContext{{
		Name:              contextName,
		ContextAttributes: attrs,
		TimeToLive: model.ContextTTL{
			TimeToLiveInSeconds: contextTTLSeconds,
			TurnsToLive:         contextTurnsToLive,
		},
	}}
}

// ElicitSlot asks the dialog engine to re-prompt exactly one slot.
func ElicitSlot(sessionAttrs, contextAttrs map[string]string, intent model.Intent, slotToElicit, message string) *model.DialogResponse {
	return &model.DialogResponse{
		SessionState: model.ResponseSessionState{
			ActiveContexts:    intentContext(contextAttrs),
			SessionAttributes: sessionAttrs,
			DialogAction: model.DialogAction{
				Type:         model.ActionElicitSlot,
				SlotToElicit: slotToElicit,
			},
			Intent: &intent,
		},
		Messages: []model.ResponseMessage{{
			ContentType: model.ContentPlainText,
			Content:     message,
		}},
	}
}

// ConfirmIntent asks the user to confirm the proposed final action.
func ConfirmIntent(sessionAttrs, contextAttrs map[string]string, intent model.Intent, message string) *model.DialogResponse {
	return &model.DialogResponse{
		SessionState: model.ResponseSessionState{
			ActiveContexts:    intentContext(contextAttrs),
			SessionAttributes: sessionAttrs,
			DialogAction: model.DialogAction{
				Type: model.ActionConfirmIntent,
			},
			Intent: &intent,
		},
		Messages: []model.ResponseMessage{{
			ContentType: model.ContentPlainText,
			Content:     message,
		}},
	}
}

// Close ends the intent with a terminal state and a fulfillment message.
func Close(sessionAttrs, contextAttrs map[string]string, intent model.Intent, message string) *model.DialogResponse {
	return &model.DialogResponse{
		SessionState: model.ResponseSessionState{
			ActiveContexts:    intentContext(contextAttrs),
			SessionAttributes: sessionAttrs,
			DialogAction: model.DialogAction{
				Type: model.ActionClose,
			},
			Intent: &intent,
		},
		Messages: []model.ResponseMessage{{
			ContentType: model.ContentPlainText,
			Content:     message,
		}},
	}
}

// ElicitIntent hands the next move to the user. It always appends the fixed
// quick-reply card; the suggestions are a constant UX affordance, not state.
func ElicitIntent(sessionAttrs map[string]string, message string) *model.DialogResponse {
	return &model.DialogResponse{
		SessionState: model.ResponseSessionState{
			SessionAttributes: sessionAttrs,
			DialogAction: model.DialogAction{
				Type: model.ActionElicitIntent,
			},
		},
		Messages: []model.ResponseMessage{
			{
				ContentType: model.ContentPlainText,
				Content:     message,
			},
			{
				ContentType: model.ContentImageResponseCard,
				ImageResponseCard: &model.ImageResponseCard{
					Title: "How can I help you?",
					Buttons: []model.Button{
						{Text: "Loan Application", Value: "Loan Application"},
						{Text: "Loan Calculator", Value: "Loan Calculator"},
						{Text: "Ask GenAI", Value: "What kind of questions can the FSI Agent answer?"},
					},
				},
			},
		},
	}
}

// Delegate lets the dialog engine decide the next prompt.
func Delegate(sessionAttrs, contextAttrs map[string]string, intent model.Intent, message string) *model.DialogResponse {
	return &model.DialogResponse{
		SessionState: model.ResponseSessionState{
			ActiveContexts:    intentContext(contextAttrs),
			SessionAttributes: sessionAttrs,
			DialogAction: model.DialogAction{
				Type: model.ActionDelegate,
			},
			Intent: &intent,
		},
		Messages: []model.ResponseMessage{{
			ContentType: model.ContentPlainText,
			Content:     message,
		}},
	}
}
