package service_test

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jonboulle/clockwork"

	mock_service "spotmap/internal/service/mocks"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func newFakeClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(fixedNow)
}

// passThroughTx makes the mocked Transactor run fn with the caller's context.
func passThroughTx(tx *mock_service.MockTransactor) {
	tx.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()
}

func strPtr(s string) *string { return &s }
