// Package memory provides in-memory implementations of the driven ports.
// Nothing survives the process; the stores back tests and ephemeral runs.
package memory
