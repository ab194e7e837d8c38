// Package file stores application configuration in ~/.filingvec/config.toml.
//
// Keys are addressed in dot notation and map onto TOML tables:
//
//	[chunking]
//	size = 500
//	overlap = 100
//
//	[embedding]
//	provider = "local"
package file
