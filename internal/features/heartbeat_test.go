package features

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSendHeartbeat(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := SendHeartbeat(server.URL, time.Second); err != nil {
		t.Fatalf("heartbeat failed: %v", err)
	}
	if hits != 1 {
		t.Fatalf("want 1 request, got %d", hits)
	}
}

func TestSendHeartbeatRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if err := SendHeartbeat(server.URL, time.Second); err == nil {
		t.Fatal("heartbeat should fail on non-2xx status")
	}
}

func TestSendHeartbeatUnreachable(t *testing.T) {
	if err := SendHeartbeat("http://127.0.0.1:0/", 100*time.Millisecond); err == nil {
		t.Fatal("heartbeat should fail when the endpoint is unreachable")
	}
}
