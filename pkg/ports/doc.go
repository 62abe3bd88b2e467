// Package ports defines the interfaces between the engine core and its
// adapters (stores, tool registry), plus reusable contract test suites
// that every adapter must pass.
package ports
