package domain

// Names of the trading policy rules evaluated by the rule validator.
const (
	RuleNoMoreBorrowThanLend     = "NoMoreBorrowThanLend"
	RuleMaxTransactionPerWeek    = "MaxTransactionPerWeek"
	RuleMaxIncompleteTransaction = "MaxIncompleteTransaction"
	RuleVacation                 = "VacationRule"
)

// SystemRule is a named policy threshold. It is not persisted; restrictions
// for the configurable rules are pushed in on configuration change.
type SystemRule struct {
	Name        string
	Restriction int
}
