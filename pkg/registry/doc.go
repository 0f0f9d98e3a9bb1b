// Package registry implements the Custos core: the fixed administrator
// set, the asset store, the per-asset tracking-event ledger, and the
// authorization rules gating every operation.
//
// The registry is a pure in-memory structure. It performs no I/O,
// spawns nothing, and holds no locks; it relies on its host to apply
// calls one at a time and to attribute a caller identity to each call.
// Implements: prd001-registry-core; docs/ARCHITECTURE § Registry Core.
package registry
