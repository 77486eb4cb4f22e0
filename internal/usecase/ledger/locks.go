package ledger

// In-process lock names. Rows are still locked in the database; these only
// keep goroutines of one process from queueing on the same rows.
const capitalKey = "capital"

func ownerKey(userID string) string { return "owner:" + userID }
func pawnKey(pawnID string) string { return "pawn:" + pawnID }
func loanKey(loanID string) string { return "loan:" + loanID }

// hold blocks until name is free and returns its release func.
func (e *Engine) hold(name string) func() {
	e.keys.Lock(name)
	return func() { _ = e.keys.Unlock(name) }
}
