// Package catalog holds the domain model for the record catalog: raw source
// assets, the pairing engine that groups them into logical items, and the
// item lifecycle state machine.
//
// An Item advances discovered -> cataloged -> published, with error reachable
// from every non-terminal state as a retry target. Transition rules live in
// one table; mutating helpers (ApplyCaption, MarkPublished, MarkError,
// RequestRetry) enforce their guards and leave the item untouched when a
// transition is not allowed. Pairing is a pure function so repeated scans of
// an unchanged source always produce the same keys.
package catalog
