package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octank-fsi/dialog-agent/internal/accounts"
	"github.com/octank-fsi/dialog-agent/internal/dialog/engine"
	"github.com/octank-fsi/dialog-agent/internal/dialog/model"
)

type fakeAccounts struct {
	pins    map[string]string
	records map[string][]accounts.Record
	apps    []accounts.ApplicationRecord
}

func (f *fakeAccounts) UserExists(_ context.Context, userName string) (bool, error) {
	_, ok := f.pins[userName]
	return ok, nil
}

func (f *fakeAccounts) CheckPIN(_ context.Context, userName, pin string) (bool, error) {
	return f.pins[userName] == pin, nil
}

func (f *fakeAccounts) QueryByUserName(_ context.Context, userName string) ([]accounts.Record, error) {
	return f.records[userName], nil
}

func (f *fakeAccounts) PutApplication(_ context.Context, app accounts.ApplicationRecord) error {
	f.apps = append(f.apps, app)
	return nil
}

type fakeAnswerer struct {
	answer   string
	nudge    string
	asked    []string
	answered []string
}

func (f *fakeAnswerer) Answer(_ context.Context, _, question string) (string, error) {
	f.answered = append(f.answered, question)
	return f.answer, nil
}

func (f *fakeAnswerer) Nudge(_ context.Context, _, asked, _ string) (string, error) {
	f.asked = append(f.asked, asked)
	return f.nudge, nil
}

type fakeDocs struct {
	link  string
	calls int
}

func (f *fakeDocs) GenerateApplication(_ context.Context, _ accounts.ApplicationRecord) (string, error) {
	f.calls++
	return f.link, nil
}

func newEngine(acc *fakeAccounts, ans *fakeAnswerer, docs *fakeDocs) *engine.Engine {
	if acc == nil {
		acc = &fakeAccounts{pins: map[string]string{}}
	}
	if ans == nil {
		ans = &fakeAnswerer{}
	}
	if docs == nil {
		docs = &fakeDocs{link: "https://artifacts.octank.example/form.pdf"}
	}
	return engine.New(acc, ans, docs)
}

func request(intentName, confirmation string, slots map[string]string) *model.DialogRequest {
	intent := model.Intent{
		Name:              intentName,
		ConfirmationState: confirmation,
		State:             model.IntentInProgress,
		Slots:             map[string]*model.Slot{},
	}
	for name, value := range slots {
		intent.SetSlot(name, value)
	}
	return &model.DialogRequest{
		SessionState:     model.SessionState{Intent: intent},
		InvocationSource: model.SourceDialogCodeHook,
	}
}

func validLoanSlots() map[string]string {
	return map[string]string{
		"UserName":       "John Stiles",
		"LoanValue":      "350000",
		"MonthlyIncome":  "8000",
		"WorkHistory":    "yes",
		"CreditScore":    "740",
		"HousingExpense": "1800",
		"DebtAmount":     "0",
		"DownPayment":    "70000",
		"Coborrow":       "no",
		"ClosingDate":    "2031-06-01",
	}
}

func johnStiles() *fakeAccounts {
	return &fakeAccounts{pins: map[string]string{"John Stiles": "1234"}}
}

func TestLoanApplicationMissingLoanValueElicitsFixedPrompt(t *testing.T) {
	slots := validLoanSlots()
	delete(slots, "LoanValue")
	req := request(model.IntentLoanApplication, model.ConfirmationNone, slots)

	resp, err := newEngine(johnStiles(), nil, nil).Dispatch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.ActionElicitSlot, resp.SessionState.DialogAction.Type)
	assert.Equal(t, "LoanValue", resp.SessionState.DialogAction.SlotToElicit)
	assert.Contains(t, resp.Messages[0].Content, "What is your desired loan amount?")
}

func TestLoanApplicationConfirmedPersistsOneRecordAndReturnsLink(t *testing.T) {
	acc := johnStiles()
	docs := &fakeDocs{link: "https://artifacts.octank.example/form.pdf?sig=abc"}
	req := request(model.IntentLoanApplication, model.ConfirmationConfirmed, validLoanSlots())

	resp, err := newEngine(acc, nil, docs).Dispatch(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, acc.apps, 1)
	app := acc.apps[0]
	assert.Equal(t, "John Stiles", app.UserName)
	assert.Equal(t, "350000", app.LoanValue)
	assert.Equal(t, "Loan", app.PlanName)
	assert.Equal(t, 1, docs.calls)

	assert.Equal(t, model.ActionElicitIntent, resp.SessionState.DialogAction.Type)
	assert.Contains(t, resp.Messages[0].Content, "https://artifacts.octank.example/form.pdf?sig=abc")
}

func TestLoanApplicationUnconfirmedDelegates(t *testing.T) {
	acc := johnStiles()
	req := request(model.IntentLoanApplication, model.ConfirmationNone, validLoanSlots())

	resp, err := newEngine(acc, nil, nil).Dispatch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.ActionDelegate, resp.SessionState.DialogAction.Type)
	assert.Empty(t, acc.apps)
}

func TestLoanApplicationNonNumericIncomeGetsNudge(t *testing.T) {
	ans := &fakeAnswerer{nudge: "A boat sounds lovely, but let's finish your application first."}
	slots := validLoanSlots()
	slots["MonthlyIncome"] = "I would rather buy a boat"
	req := request(model.IntentLoanApplication, model.ConfirmationNone, slots)

	resp, err := newEngine(johnStiles(), ans, nil).Dispatch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.ActionElicitSlot, resp.SessionState.DialogAction.Type)
	assert.Equal(t, "MonthlyIncome", resp.SessionState.DialogAction.SlotToElicit)
	assert.Equal(t,
		"A boat sounds lovely, but let's finish your application first. What is your monthly income?",
		resp.Messages[0].Content)
	require.Len(t, ans.asked, 1)
	assert.Equal(t, "What is your monthly income?", ans.asked[0])
}

func TestLoanApplicationDeniedWithBadCreditScoreRestarts(t *testing.T) {
	slots := validLoanSlots()
	slots["CreditScore"] = "851"
	req := request(model.IntentLoanApplication, model.ConfirmationDenied, slots)

	resp, err := newEngine(johnStiles(), nil, nil).Dispatch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.ActionElicitSlot, resp.SessionState.DialogAction.Type)
	assert.Equal(t, "UserName", resp.SessionState.DialogAction.SlotToElicit)
	for name, slot := range resp.SessionState.Intent.Slots {
		assert.Nil(t, slot, "slot %s should be cleared", name)
	}
}

func TestLoanApplicationFallsBackToSessionUsername(t *testing.T) {
	slots := validLoanSlots()
	delete(slots, "UserName")
	req := request(model.IntentLoanApplication, model.ConfirmationConfirmed, slots)
	req.SessionState.SessionAttributes = map[string]string{"UserName": "John Stiles"}

	acc := johnStiles()
	_, err := newEngine(acc, nil, nil).Dispatch(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, acc.apps, 1)
	assert.Equal(t, "John Stiles", acc.apps[0].UserName)
}

func TestLoanApplicationWithoutIdentityFailsOnUserName(t *testing.T) {
	slots := validLoanSlots()
	delete(slots, "UserName")
	req := request(model.IntentLoanApplication, model.ConfirmationNone, slots)

	resp, err := newEngine(johnStiles(), nil, nil).Dispatch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.ActionElicitSlot, resp.SessionState.DialogAction.Type)
	assert.Equal(t, "UserName", resp.SessionState.DialogAction.SlotToElicit)
}

func TestVerifyIdentityInvalidPinTwiceKeepsUsername(t *testing.T) {
	e := newEngine(johnStiles(), nil, nil)

	for i := 0; i < 2; i++ {
		req := request(model.IntentVerifyIdentity, model.ConfirmationNone, map[string]string{
			"UserName": "John Stiles",
			"Pin":      "9999",
		})
		resp, err := e.Dispatch(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, model.ActionElicitSlot, resp.SessionState.DialogAction.Type)
		assert.Equal(t, "Pin", resp.SessionState.DialogAction.SlotToElicit)
		assert.Equal(t, "John Stiles", resp.SessionState.SessionAttributes["UserName"])
		assert.Contains(t, resp.Messages[0].Content, "incorrect PIN")
	}
}

func TestVerifyIdentityUnknownUserElicitsUsername(t *testing.T) {
	req := request(model.IntentVerifyIdentity, model.ConfirmationNone, map[string]string{
		"UserName": "nobody",
		"Pin":      "1234",
	})

	resp, err := newEngine(johnStiles(), nil, nil).Dispatch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.ActionElicitSlot, resp.SessionState.DialogAction.Type)
	assert.Equal(t, "UserName", resp.SessionState.DialogAction.SlotToElicit)
	assert.Contains(t, resp.Messages[0].Content, "no profile belonging to the username, nobody")
}

func TestVerifyIdentityMortgageSummary(t *testing.T) {
	acc := &fakeAccounts{
		pins: map[string]string{"jdoe": "1234"},
		records: map[string][]accounts.Record{
			"jdoe": {{
				UserName:        "jdoe",
				PlanName:        "mortgage",
				PIN:             "1234",
				LoanAmount:      800000,
				LoanInterest:    3.5,
				UnpaidPrincipal: 250000,
				AmountDue:       1000,
				DueDate:         "07/01/2031",
			}},
		},
	}
	req := request(model.IntentVerifyIdentity, model.ConfirmationNone, map[string]string{
		"UserName": "jdoe",
		"Pin":      "1234",
	})

	resp, err := newEngine(acc, nil, nil).Dispatch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.ActionElicitIntent, resp.SessionState.DialogAction.Type)
	msg := resp.Messages[0].Content
	assert.Contains(t, msg, "Thank you for confirming your username and PIN, jdoe.")
	assert.Contains(t, msg, "$800,000 loan")
	assert.Contains(t, msg, "3.5% interest")
	assert.Contains(t, msg, "07/01/2031")

	// the quick-reply card rides along on every elicit-intent
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, model.ContentImageResponseCard, resp.Messages[1].ContentType)
}

func TestFallbackAnswersOnDialogCodeHook(t *testing.T) {
	ans := &fakeAnswerer{answer: "Octank offers fixed and adjustable rate mortgages. [Source 1: Rates - link]"}
	req := &model.DialogRequest{
		SessionState:     model.SessionState{Intent: model.Intent{Name: "FallbackIntent"}},
		InvocationSource: model.SourceDialogCodeHook,
		InputTranscript:  "what mortgage types do you offer?",
	}

	resp, err := newEngine(nil, ans, nil).Dispatch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.ActionElicitIntent, resp.SessionState.DialogAction.Type)
	assert.Equal(t, ans.answer, resp.Messages[0].Content)
	require.Len(t, ans.answered, 1)
	assert.Equal(t, "what mortgage types do you offer?", ans.answered[0])
}

func TestFallbackDelegatesOutsideDialogCodeHook(t *testing.T) {
	ans := &fakeAnswerer{answer: "unused"}
	req := &model.DialogRequest{
		SessionState:     model.SessionState{Intent: model.Intent{Name: "FallbackIntent"}},
		InvocationSource: model.SourceFulfillmentCodeHook,
		InputTranscript:  "anything",
	}

	resp, err := newEngine(nil, ans, nil).Dispatch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.ActionDelegate, resp.SessionState.DialogAction.Type)
	assert.Empty(t, ans.answered)
}
