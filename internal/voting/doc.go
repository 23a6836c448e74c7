// Package voting implements toggle voting for questions and answers and
// toggle likes for comments.
//
// A Toggler decides the transition for one (user, target, kind) request,
// mutates the vote ledger and recomputes the target's derived counters.
// Storage is reached through the Store, Ledger and Targets interfaces so
// the same protocol runs against Postgres and the in-memory store used in
// tests.
package voting
