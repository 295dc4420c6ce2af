package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/octank-fsi/dialog-agent/internal/accounts"
	"github.com/octank-fsi/dialog-agent/internal/dialog/model"
	"github.com/octank-fsi/dialog-agent/internal/dialog/respond"
	"github.com/octank-fsi/dialog-agent/internal/dialog/validators"
	logx "github.com/octank-fsi/dialog-agent/pkg/logger"
)

const (
	slotUserName       = "UserName"
	slotLoanValue      = "LoanValue"
	slotMonthlyIncome  = "MonthlyIncome"
	slotWorkHistory    = "WorkHistory"
	slotCreditScore    = "CreditScore"
	slotHousingExpense = "HousingExpense"
	slotDebtAmount     = "DebtAmount"
	slotDownPayment    = "DownPayment"
	slotCoborrow       = "Coborrow"
	slotClosingDate    = "ClosingDate"

	noAccountMessage          = "We cannot find an account under that username. Please try again with a valid username."
	closingDateUnclearMessage = "I did not understand your closing date.  When would you like to close?"
	closingDatePastMessage    = "Closing dates must be scheduled at least one day in advance.  Please try a different date."
	confirmApplicationMessage = "Confirm loan application"
	applicationReadyMessage   = "Your loan application is nearly complete! Please follow the link for the last few bits of information: "
)

type slotKind int

const (
	kindNumeric slotKind = iota
	kindYesNo
	kindDate
)

// slotSpec is one required loan-application slot. prompt is asked when the
// slot is absent; rePrompt is the short form appended after a conversational
// nudge; invalidMsg is the static failure message for a present-but-invalid
// value.
type slotSpec struct {
	name       string
	kind       slotKind
	prompt     string
	rePrompt   string
	invalidMsg string
	valid      func(float64) bool
}

func wholeCreditScore(f float64) bool {
	n := int(f)
	return float64(n) == f && validators.ValidCreditScore(n)
}

// loanSlots is the fixed validation order; the first failing slot wins.
var loanSlots = []slotSpec{
	{
		name:       slotLoanValue,
		kind:       kindNumeric,
		prompt:     "What is your desired loan amount? In other words, how much are looking to borrow? If you are unsure, please use our Loan Calculator by simply responding 'Loan Calculator.'",
		rePrompt:   "What is your desired loan amount?",
		invalidMsg: "Please enter a value greater than $0.",
		valid:      validators.ValidZeroOrGreater,
	},
	{
		name:       slotMonthlyIncome,
		kind:       kindNumeric,
		prompt:     "What is your monthly income?",
		rePrompt:   "What is your monthly income?",
		invalidMsg: "Monthly income amount must be greater than $0. Please try again.",
		valid:      validators.ValidZeroOrGreater,
	},
	{
		name:       slotWorkHistory,
		kind:       kindYesNo,
		prompt:     "Do you have a two-year continuous work history (Yes/No)?",
		rePrompt:   "Do you have a two-year continuous work history (Yes/No)?",
		invalidMsg: "I am sorry; we did not understand that. Please answer 'Yes' or 'No'",
	},
	{
		name:       slotCreditScore,
		kind:       kindNumeric,
		prompt:     "What do you think your current credit score is?",
		rePrompt:   "What do you think your current credit score is?",
		invalidMsg: "Credit score entries must be between 300 and 850. Please enter a valid credit score.",
		valid:      wholeCreditScore,
	},
	{
		name:       slotHousingExpense,
		kind:       kindNumeric,
		prompt:     "How much are you currently paying for housing each month?",
		rePrompt:   "How much are you currently paying for housing each month?",
		invalidMsg: "Your housing expense must be a value greater than or equal to $0. Please try again.",
		valid:      validators.ValidZeroOrGreater,
	},
	{
		name:       slotDebtAmount,
		kind:       kindNumeric,
		prompt:     "What is your estimated credit card or student loan debt? Please enter '0' if none.",
		rePrompt:   "What is your estimated credit card or student loan debt?",
		invalidMsg: "Your debt amount must be a value greater than or equal to $0. Please try again.",
		valid:      validators.ValidZeroOrGreater,
	},
	{
		name:       slotDownPayment,
		kind:       kindNumeric,
		prompt:     "What do you have saved for a down payment?",
		rePrompt:   "What do you have saved for a down payment?",
		invalidMsg: "Your estimate down payment must be a value greater than or equal to $0. Please try again.",
		valid:      validators.ValidZeroOrGreater,
	},
	{
		name:       slotCoborrow,
		kind:       kindYesNo,
		prompt:     "Do you have a co-borrower (Yes/No)?",
		rePrompt:   "Do you have a co-borrower (Yes/No)?",
		invalidMsg: "I am sorry; we did not understand that. Please answer 'Yes' or 'No'",
	},
	{
		name:     slotClosingDate,
		kind:     kindDate,
		prompt:   "When are you looking to close?",
		rePrompt: "When are you looking to close?",
	},
}

// validateLoanApplication walks the required slots in order. The username
// comes from its slot or falls back to the session attribute set during
// identity verification; everything after it follows one policy per slot
// kind: numeric slots route non-numeric input through a model nudge, yes/no
// and date slots re-elicit with a static message.
func (e *Engine) validateLoanApplication(ctx context.Context, req *model.DialogRequest) (model.ValidationResult, error) {
	intent := &req.SessionState.Intent

	username, ok := intent.ResolveSlot(slotUserName)
	if ok {
		exists, err := e.accounts.UserExists(ctx, username)
		if err != nil {
			return model.ValidationResult{}, err
		}
		if !exists {
			return model.Invalid(slotUserName, fmt.Sprintf(unknownUserTemplate, username)), nil
		}
	} else {
		session := req.SessionState.Attributes()[slotUserName]
		if session == "" {
			return model.Invalid(slotUserName, noAccountMessage), nil
		}
		intent.SetSlot(slotUserName, session)
	}

	for _, s := range loanSlots {
		raw, present := intent.ResolveSlot(s.name)
		if !present {
			return model.Invalid(s.name, s.prompt), nil
		}

		switch s.kind {
		case kindNumeric:
			n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				message, nerr := e.nudge(ctx, req, s.rePrompt)
				if nerr != nil {
					return model.ValidationResult{}, nerr
				}
				return model.Invalid(s.name, message), nil
			}
			if !s.valid(n) {
				return model.Invalid(s.name, s.invalidMsg), nil
			}
		case kindYesNo:
			if !validators.ValidYesNo(raw) {
				return model.Invalid(s.name, s.invalidMsg), nil
			}
		case kindDate:
			t, err := dateparse.ParseAny(raw)
			if err != nil {
				return model.Invalid(s.name, closingDateUnclearMessage), nil
			}
			if !t.After(time.Now()) {
				return model.Invalid(s.name, closingDatePastMessage), nil
			}
		}
	}
	return model.Valid(), nil
}

// nudge asks the model to acknowledge an off-script reply, then appends the
// question being re-asked.
func (e *Engine) nudge(ctx context.Context, req *model.DialogRequest, rePrompt string) (string, error) {
	reply, err := e.answerer.Nudge(ctx, userID(req), rePrompt, req.InputTranscript)
	if err != nil {
		return "", err
	}
	return reply + " " + rePrompt, nil
}

// loanApplication runs the slot pipeline on dialog-code-hook turns, then
// branches on the confirmation state: Confirmed commits the application and
// produces the document link, anything else delegates the next prompt back
// to the dialog engine.
func (e *Engine) loanApplication(ctx context.Context, req *model.DialogRequest) (*model.DialogResponse, error) {
	intent := &req.SessionState.Intent
	attrs := req.SessionState.Attributes()
	confirmation := intent.ConfirmationState

	if req.InvocationSource == model.SourceDialogCodeHook {
		result, err := e.validateLoanApplication(ctx, req)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			// A denied confirmation with a bad credit score restarts the
			// whole application from the top.
			if result.ViolatedSlot == slotCreditScore && confirmation == model.ConfirmationDenied {
				result.ViolatedSlot = slotUserName
				intent.Slots = map[string]*model.Slot{}
			}
			intent.ClearSlot(result.ViolatedSlot)
			return respond.ElicitSlot(attrs, map[string]string{}, *intent, result.ViolatedSlot, result.Message), nil
		}
	}

	if confirmation != model.ConfirmationConfirmed {
		return respond.Delegate(attrs, map[string]string{}, *intent, confirmApplicationMessage), nil
	}

	intent.ConfirmationState = model.ConfirmationConfirmed
	intent.State = model.IntentFulfilled

	app := accounts.ApplicationRecord{
		UserName:      slotValue(intent, slotUserName),
		LoanValue:     slotValue(intent, slotLoanValue),
		MonthlyIncome: slotValue(intent, slotMonthlyIncome),
		CreditScore:   slotValue(intent, slotCreditScore),
		DownPayment:   slotValue(intent, slotDownPayment),
		PlanName:      "Loan",
	}
	if err := e.accounts.PutApplication(ctx, app); err != nil {
		return nil, err
	}

	link, err := e.documents.GenerateApplication(ctx, app)
	if err != nil {
		return nil, err
	}
	logx.Info().Str("user_name", app.UserName).Msg("loan application fulfilled")

	return respond.ElicitIntent(attrs, applicationReadyMessage+link), nil
}

func slotValue(intent *model.Intent, name string) string {
	v, _ := intent.ResolveSlot(name)
	return v
}
