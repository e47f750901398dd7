// Package finance is the ledger of a personal finance tracker. It stores
// transactions, accounts, categories, settings and reconciliation history in
// a key/value store and derives everything else from the transaction list.
//
// The core functionalities include:
//   - Ledger Store: the authoritative in-memory state, loaded from and saved
//     to a [KV] after every mutation ([Open], [Store.Save]).
//   - Balance Deriver: account balances folded from the transactions
//     ([BalanceOf], [BalancesAsOf], [AllBalances]), never stored.
//   - Transaction Mutators: the only path through which the ledger changes
//     ([Store.AddRegular], [Store.AddTransfer], [Store.Update], [Store.Delete]).
//     A transfer is stored as two linked legs and always handled as a pair.
//   - Filter Engine: read-only views by period, type, account and category
//     ([Filter]).
//   - Reconciliation: comparing a real-world balance with the derived one and
//     closing the difference with an adjustment ([Reconciler]).
//   - Export/Import: a full-state [Snapshot] imported back field by field.
//
// Collaborators (the command line, the assistant, renderers) receive the
// *Store explicitly and may [Store.Subscribe] to be told about mutations.
package finance
