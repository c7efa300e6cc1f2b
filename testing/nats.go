package testing

import (
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StartEmbeddedNATS starts an embedded NATS server with JetStream enabled for testing.
//
// The server runs in-process and stores data in a temporary directory that is
// removed when the test completes. KV-backed contact sources are tested
// against it.
//
// The server uses a random available port to avoid conflicts in parallel tests.
//
// Parameters:
//   - t: Testing context for logging and cleanup
//
// Returns:
//   - *server.Server: The embedded NATS server instance
//   - *nats.Conn: Connected NATS client (closed automatically on test completion)
//
// Example:
//
//	func TestKVSource(t *testing.T) {
//	    _, nc := rowlisttest.StartEmbeddedNATS(t)
//	    kv := rowlisttest.CreateJetStreamKV(t, nc, "contacts")
//	    src := source.NewKV(kv)
//	}
func StartEmbeddedNATS(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1, // random port
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("Failed to create embedded NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("Embedded NATS server not ready within timeout")
	}

	nc, err := nats.Connect(ns.ClientURL(),
		nats.Timeout(2*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(3),
	)
	if err != nil {
		ns.Shutdown()
		t.Fatalf("Failed to connect to embedded NATS server: %v", err)
	}

	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	return ns, nc
}

// JetStream returns a JetStream context over nc, failing the test on error.
func JetStream(t *testing.T, nc *nats.Conn) jetstream.JetStream {
	t.Helper()

	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("Failed to get JetStream context: %v", err)
	}

	return js
}

// CreateJetStreamKV creates an in-memory, single-revision KV bucket for testing.
//
// Example:
//
//	_, nc := rowlisttest.StartEmbeddedNATS(t)
//	kv := rowlisttest.CreateJetStreamKV(t, nc, "contacts")
func CreateJetStreamKV(t *testing.T, nc *nats.Conn, bucketName string) jetstream.KeyValue {
	t.Helper()

	kv, err := JetStream(t, nc).CreateKeyValue(t.Context(), jetstream.KeyValueConfig{
		Bucket:      bucketName,
		Description: fmt.Sprintf("Test KV bucket: %s", bucketName),
		History:     1,
		Storage:     jetstream.MemoryStorage,
	})
	if err != nil {
		t.Fatalf("Failed to create KV bucket %s: %v", bucketName, err)
	}

	return kv
}

// SeedKV stores raw values under their keys, failing the test on error.
func SeedKV(t *testing.T, kv jetstream.KeyValue, entries map[string]string) {
	t.Helper()

	for key, value := range entries {
		if _, err := kv.PutString(t.Context(), key, value); err != nil {
			t.Fatalf("Failed to seed %s: %v", key, err)
		}
	}
}
