// Package services implements the driving port interfaces.
// Services contain the core logic and orchestrate calls to driven ports
// (vector stores, embedders, extractors, chunkers, config).
//
// Services are pure Go with no CGO or external dependencies beyond uuid.
package services
