// Package feedback persists pattern identity and user confirm/reject
// decisions across detection runs.
//
// Detection itself is stateless: every run recomputes groups from the
// snapshot. What must survive between runs is the mapping from a pattern's
// identity key to a stable numeric id, and whatever the user has said about
// that pattern. The store owns both. Two implementations are provided: an
// in-memory store for tests and single-shot runs, and a SQLite store for
// durable feedback.
package feedback

// Key identifies a pattern independently of any single detection run.
// Two runs over overlapping snapshots produce the same key for the same
// underlying recurring payment.
type Key struct {
	AccountID             string
	NormalizedDescription string
}

// Entry holds the recorded user decision for a pattern. Confirming and
// rejecting are mutually exclusive; the zero value means no decision yet.
type Entry struct {
	IsConfirmed bool
	IsRejected  bool
}

// Store assigns stable pattern ids and records user feedback.
type Store interface {
	// AssignID returns the pattern id for the key, minting a new one on
	// first sight. Repeated calls with the same key return the same id.
	AssignID(key Key) (int64, error)

	// Feedback returns the recorded decision for the key. An unknown key
	// returns the zero Entry without error.
	Feedback(key Key) (Entry, error)

	// Confirm marks the pattern as user-confirmed, clearing any prior
	// rejection. Returns a pattern-not-found error for ids that were
	// never assigned.
	Confirm(patternID int64) error

	// Reject marks the pattern as user-rejected, clearing any prior
	// confirmation. Returns a pattern-not-found error for ids that were
	// never assigned.
	Reject(patternID int64) error

	// Exists reports whether the id has been assigned to any pattern
	Exists(patternID int64) (bool, error)

	// Close releases any resources held by the store
	Close() error
}
