// Package domain holds the core data model of the Sluice engine:
// graph definitions, run records, the tool contract, and lifecycle events.
// It has no dependencies on transport, storage, or the runtime loop.
package domain
