// Package writebehind is a deferred-write persistence layer for exercising
// the flush-then-evaluate contract.
//
// DML issued through Exec is buffered per scope rather than sent to the
// database; FlushPendingWrites materializes the buffer at the host's
// synchronization point. Counting statements before flush would
// under-report writes, which is exactly the situation the engine's flush
// coordinator exists to prevent. Reads pass through immediately, since
// nothing defers them.
package writebehind
