// Package types defines the shared vocabulary of the hive reader: handles,
// header metadata, hive kinds and the typed error used across package
// boundaries.
package types
