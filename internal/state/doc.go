// Package state holds the local mirror of the authority's grid.
//
// # Overview
//
// The poller is the single writer: it calls Store.Update with every poll
// result. The UI reads through Snapshot for rendering and through a
// Subscription for the ordered stream of structural changes.
//
//	Producer (Poller):             Consumers (UI, engine):
//	┌────────────────┐            ┌──────────────────────┐
//	│ FetchUpdate()  │            │ sub.Next(ctx)        │
//	│      ↓         │            │      ↓               │
//	│ store.Update() │───────────→│ engine.Apply(chg...) │
//	│      ↓         │  (mutex)   │ store.Snapshot()     │
//	│  repeat...     │            │      ↓               │
//	└────────────────┘            │ render               │
//	                              └──────────────────────┘
//
// # Update Semantics
//
// An error keeps the previous grid and increments ConsecutiveFailures; the
// mirror is considered offline after two in a row. A successful update with
// a grid whose content hash (xxhash over its JSON form) matches the stored
// one and no events or statuses publishes nothing.
//
// # Delivery
//
// Each Subscription has its own unbounded pending list. Changes are never
// dropped or coalesced, because index remapping downstream must observe
// every structural event in the order the authority applied it. Next
// returns everything pending at once.
//
// # Defensive Copying
//
// Update clones the incoming grid; Snapshot and every published Change carry
// their own deep copies, so the UI may hold on to them freely.
package state
