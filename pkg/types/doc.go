// Package types defines the identity, asset, and tracking-event types,
// the backend Config, and standard error types for the Custos registry.
// Implements: prd001-registry-core (entities, Config, error types);
//
//	docs/ARCHITECTURE § Data Model.
package types
