// Package scheduling contains the room assignment core: the buffered overlap
// predicate, greedy candidate-room assignment, recurring-schedule expansion
// and the rolling-horizon reoptimization sweep. The package is pure
// computation over snapshots; persistence and transport live elsewhere.
package scheduling
