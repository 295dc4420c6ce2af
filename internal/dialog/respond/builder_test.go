package respond_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octank-fsi/dialog-agent/internal/dialog/model"
	"github.com/octank-fsi/dialog-agent/internal/dialog/respond"
)

func TestElicitSlotShape(t *testing.T) {
	intent := model.Intent{Name: model.IntentLoanApplication}
	attrs := map[string]string{"UserName": "jdoe"}

	resp := respond.ElicitSlot(attrs, nil, intent, "LoanValue", "What is your desired loan amount?")

	assert.Equal(t, model.ActionElicitSlot, resp.SessionState.DialogAction.Type)
	assert.Equal(t, "LoanValue", resp.SessionState.DialogAction.SlotToElicit)
	assert.Equal(t, attrs, resp.SessionState.SessionAttributes)
	require.Len(t, resp.SessionState.ActiveContexts, 1)
	assert.Equal(t, 86400, resp.SessionState.ActiveContexts[0].TimeToLive.TimeToLiveInSeconds)
	assert.Equal(t, 20, resp.SessionState.ActiveContexts[0].TimeToLive.TurnsToLive)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, model.ContentPlainText, resp.Messages[0].ContentType)
	assert.Equal(t, "What is your desired loan amount?", resp.Messages[0].Content)
}

func TestElicitIntentAlwaysCarriesQuickReplies(t *testing.T) {
	resp := respond.ElicitIntent(map[string]string{}, "Anything else?")

	assert.Equal(t, model.ActionElicitIntent, resp.SessionState.DialogAction.Type)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, model.ContentPlainText, resp.Messages[0].ContentType)

	card := resp.Messages[1].ImageResponseCard
	require.NotNil(t, card)
	require.Len(t, card.Buttons, 3)
	assert.Equal(t, "Loan Application", card.Buttons[0].Text)
	assert.Equal(t, "Loan Calculator", card.Buttons[1].Text)
	assert.Equal(t, "Ask GenAI", card.Buttons[2].Text)
}

func TestDelegateCarriesIntent(t *testing.T) {
	intent := model.Intent{Name: model.IntentLoanApplication, ConfirmationState: model.ConfirmationNone}

	resp := respond.Delegate(nil, nil, intent, "Confirm loan application")

	assert.Equal(t, model.ActionDelegate, resp.SessionState.DialogAction.Type)
	require.NotNil(t, resp.SessionState.Intent)
	assert.Equal(t, model.IntentLoanApplication, resp.SessionState.Intent.Name)
}

func TestCloseTerminalState(t *testing.T) {
	intent := model.Intent{Name: model.IntentVerifyIdentity, State: model.IntentFulfilled}

	resp := respond.Close(nil, nil, intent, "Goodbye")

	assert.Equal(t, model.ActionClose, resp.SessionState.DialogAction.Type)
	assert.Equal(t, model.IntentFulfilled, resp.SessionState.Intent.State)
}
