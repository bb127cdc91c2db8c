// Package client implements the headless sync client runtime.
//
// It wires the local replica, the server adapter, the connectivity probe, and
// the background synchronization jobs into a single process lifecycle.
package client
