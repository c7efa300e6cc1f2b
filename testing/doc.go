// Package testing provides test utilities for rowlist.
//
// It offers an embedded NATS server for KV source tests, loggers for tests,
// and row builders. It follows Go's convention of providing testing utilities
// in a dedicated package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: In-memory KV bucket
//   - NewTestLogger, RecordingLogger: Loggers for tests
//   - Contact, Profile, Contacts: Row builders
//
// Example usage:
//
//	import (
//	    "testing"
//	    rowlisttest "github.com/arloliu/rowlist/testing"
//	)
//
//	func TestContacts(t *testing.T) {
//	    _, nc := rowlisttest.StartEmbeddedNATS(t)
//	    kv := rowlisttest.CreateJetStreamKV(t, nc, "contacts")
//	    // ...
//	}
package testing
