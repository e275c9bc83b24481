// ABOUTME: Tests for the backend run loop
// ABOUTME: Startup failures and shutdown return to the caller instead of exiting

package main

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRun_CatalogLoadFailureReturnsError(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "0"
	cfg.CatalogPath = "testdata/does-not-exist.yaml"
	cfg.KafkaBrokers = []string{"127.0.0.1:1"}
	cfg.KafkaSelectionsTopic = "panel.selections"

	err := run(context.Background(), cfg)

	if err == nil {
		t.Fatal("Expected an error for a missing catalog")
	}
	if !strings.Contains(err.Error(), "load catalog") {
		t.Errorf("Expected catalog load error, got %v", err)
	}
}

func TestRun_ListenFailureReturnsError(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "not-a-port"

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), cfg) }()

	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "serve") {
			t.Errorf("Expected serve error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after listen failure")
	}
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "0"
	cfg.CatalogPath = "../catalog.example.yaml"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
