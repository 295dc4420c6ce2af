// Package accounts is the relational-style account store: existing customer
// accounts queried by user name, plus pending loan applications persisted at
// fulfillment time.
package accounts

// Plan-type tags on account records, matched case-insensitively.
const (
	PlanMortgage = "mortgage"
	PlanChecking = "checking"
	PlanLoan     = "loan"
)

// Record is one existing account under a user name.
type Record struct {
	UserName        string  `bson:"user_name" json:"user_name"`
	PlanName        string  `bson:"plan_name" json:"plan_name"`
	PIN             string  `bson:"pin" json:"-"`
	LoanAmount      float64 `bson:"loan_amount,omitempty" json:"loan_amount,omitempty"`
	LoanInterest    float64 `bson:"loan_interest,omitempty" json:"loan_interest,omitempty"`
	UnpaidPrincipal float64 `bson:"unpaid_principal,omitempty" json:"unpaid_principal,omitempty"`
	AmountDue       float64 `bson:"amount_due,omitempty" json:"amount_due,omitempty"`
	PaymentAmount   float64 `bson:"payment_amount,omitempty" json:"payment_amount,omitempty"`
	DueDate         string  `bson:"due_date,omitempty" json:"due_date,omitempty"`
}

// ApplicationRecord is a pending loan application, keyed by user name and
// overwritten on resubmission; no versioning.
type ApplicationRecord struct {
	UserName      string `bson:"user_name" json:"user_name"`
	LoanValue     string `bson:"loan_value" json:"loan_value"`
	MonthlyIncome string `bson:"monthly_income" json:"monthly_income"`
	CreditScore   string `bson:"credit_score" json:"credit_score"`
	DownPayment   string `bson:"down_payment" json:"down_payment"`
	PlanName      string `bson:"plan_name" json:"plan_name"`
}
