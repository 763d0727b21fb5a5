// Package planner decides where production batches go in the weekly grid.
//
// A RuleEngine owns an ordered pipeline of constraints. Each constraint
// returns an Outcome (OK, SPLIT, ASK or BLOCK) for placing an item into a
// slot; the pipeline stops at the first outcome that is not OK.
//
// Key operations:
//   - ValidateSlot: run the pipeline for one item and slot
//   - Prefill: greedily place a list of items into an empty grid
//   - TryMove: move or swap the contents of two slots atomically
//
// Prefill visits days by ascending load. Within a day, units are ordered by
// their load that day, then by their load across the week, then by index,
// which spreads a large batch over different smokers on consecutive days.
// Options.PreferLargerUnits inserts a larger-capacity-first key right after
// the day load, so an idle large smoker wins over an idle small one.
//
// The package does no I/O and keeps no state between calls. Grids are owned
// by the caller and mutated only by TryMove, and only on success.
package planner
