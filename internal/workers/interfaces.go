// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that runs
// several workers together until their context is cancelled.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is cancelled or the worker fails. A cancelled context
// is a normal stop and returns nil.
type Worker interface {
	Run(ctx context.Context) error
}
