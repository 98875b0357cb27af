package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"salonbook-backend/services"
	"salonbook-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReminders(schedule string) *services.ReminderService {
	log := zap.NewNop()
	return services.NewReminderService(storage.NewMemStorage(), services.LogSender{Log: log}, nil, log,
		services.ReminderOptions{Schedule: schedule})
}

func runServeAsync(ctx context.Context, jobs scheduler) <-chan error {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	done := make(chan error, 1)
	go func() { done <- serve(ctx, zap.NewNop(), srv, jobs) }()
	return done
}

func TestServeReturnsSchedulerError(t *testing.T) {
	done := runServeAsync(context.Background(), newReminders("every other tuesday"))

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reminder schedule")
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the scheduler failed to start")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := runServeAsync(ctx, newReminders("0 9 * * *"))
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}
