package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/octank-fsi/dialog-agent/internal/accounts"
	"github.com/octank-fsi/dialog-agent/internal/dialog/model"
	"github.com/octank-fsi/dialog-agent/internal/dialog/respond"
	logx "github.com/octank-fsi/dialog-agent/pkg/logger"
)

const (
	slotPin = "Pin"

	unknownUserTemplate = "Our records indicate there is no profile belonging to the username, %s. Please enter a valid username"
	missingUserMessage  = "Our records indicate there are no accounts belonging to that username. Please try again."
	wrongPinMessage     = "You have entered an incorrect PIN. Please try again."
	confirmPinTemplate  = "Thank you for choosing Octank Financial, %s. Please confirm your 4-digit PIN before we proceed."
)

// validatePin checks the username/PIN pair in order: the first failing slot
// wins and carries the re-prompt message. A verified username is written to
// the session attributes so later intents can pick it up.
func (e *Engine) validatePin(ctx context.Context, req *model.DialogRequest) (model.ValidationResult, error) {
	intent := &req.SessionState.Intent

	username, ok := intent.ResolveSlot(slotUserName)
	if !ok {
		return model.Invalid(slotUserName, missingUserMessage), nil
	}
	exists, err := e.accounts.UserExists(ctx, username)
	if err != nil {
		return model.ValidationResult{}, err
	}
	if !exists {
		return model.Invalid(slotUserName, fmt.Sprintf(unknownUserTemplate, username)), nil
	}
	req.SessionState.Attributes()[slotUserName] = username

	pin, ok := intent.ResolveSlot(slotPin)
	if !ok {
		return model.Invalid(slotPin, fmt.Sprintf(confirmPinTemplate, username)), nil
	}
	match, err := e.accounts.CheckPIN(ctx, username, pin)
	if err != nil {
		return model.ValidationResult{}, err
	}
	if !match {
		return model.Invalid(slotPin, wrongPinMessage), nil
	}
	return model.Valid(), nil
}

// verifyIdentity re-elicits whichever credential slot failed, and once both
// validate reads out a summary line per account record under the username.
func (e *Engine) verifyIdentity(ctx context.Context, req *model.DialogRequest) (*model.DialogResponse, error) {
	attrs := req.SessionState.Attributes()

	result, err := e.validatePin(ctx, req)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		req.SessionState.Intent.ClearSlot(result.ViolatedSlot)
		return respond.ElicitSlot(attrs, map[string]string{}, req.SessionState.Intent, result.ViolatedSlot, result.Message), nil
	}

	if req.SessionState.Intent.ConfirmationState != model.ConfirmationNone {
		return respond.Delegate(attrs, map[string]string{}, req.SessionState.Intent, ""), nil
	}

	username := attrs[slotUserName]
	records, err := e.accounts.QueryByUserName(ctx, username)
	if err != nil {
		return nil, err
	}
	logx.Debug().Str("user_name", username).Int("accounts", len(records)).Msg("identity verified")

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		if line := accountSummary(rec); line != "" {
			lines = append(lines, line)
		}
	}
	message := fmt.Sprintf("Thank you for confirming your username and PIN, %s. %s",
		username, strings.Join(lines, " "))
	return respond.ElicitIntent(attrs, message), nil
}

// accountSummary renders one readout line keyed by the record's plan type.
// Unrecognized plan types produce no line.
func accountSummary(rec accounts.Record) string {
	switch strings.ToLower(rec.PlanName) {
	case accounts.PlanMortgage:
		return fmt.Sprintf(
			"Your mortgage account summary includes a $%s loan at %s%% interest with $%s of unpaid principal. Your next payment of $%s is scheduled for %s.",
			humanize.Commaf(rec.LoanAmount),
			strconv.FormatFloat(rec.LoanInterest, 'f', -1, 64),
			humanize.Commaf(rec.UnpaidPrincipal),
			humanize.Commaf(rec.AmountDue),
			rec.DueDate,
		)
	case accounts.PlanChecking:
		return fmt.Sprintf(
			"I see you have a Savings account with Octank Financial. Your account balance is $%s and your next payment amount of $%s is scheduled for %s.",
			humanize.Commaf(rec.UnpaidPrincipal),
			humanize.Commaf(rec.PaymentAmount),
			rec.DueDate,
		)
	case accounts.PlanLoan:
		return fmt.Sprintf(
			"I see you have a Loan account with Octank Financial. Your account balance is $%s and your next payment amount of $%s is scheduled for %s.",
			humanize.Commaf(rec.UnpaidPrincipal),
			humanize.Commaf(rec.PaymentAmount),
			rec.DueDate,
		)
	default:
		return ""
	}
}
