// Package state persists weekly smoking plans.
//
// A PlanState is the authoritative record of one week: the grid dimensions,
// every occupied slot with its items, the quantities prefill could not place,
// and a revision id that changes on every save. Plans are keyed by the
// Monday of their week (YYYY-MM-DD).
//
// Key concepts:
//   - PlanState: serializable snapshot of a week's grid
//   - PlanStore: interface for loading and saving plans
//   - FilePlanStore: one JSON file per week under the plans directory
//   - SQLStore: a single plans table in SQLite or Postgres
package state
