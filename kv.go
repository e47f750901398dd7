package finance

// KV is the persistent key/value store the ledger is synchronized to.
// Values are JSON documents. Get reports ok=false for a missing key.
//
// Implementations live in package kv.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Keys of the persisted entities.
const (
	KeyTransactions          = "transactions"
	KeyIncomeCategories      = "incomeCategories"
	KeyExpenseCategories     = "expenseCategories"
	KeyAccounts              = "accounts"
	KeySettings              = "settings"
	KeyReconciliationHistory = "reconciliationHistory"
)

// Keys lists every persisted key in save order.
var Keys = []string{
	KeyTransactions,
	KeyIncomeCategories,
	KeyExpenseCategories,
	KeyAccounts,
	KeySettings,
	KeyReconciliationHistory,
}
