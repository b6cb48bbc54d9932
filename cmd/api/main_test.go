package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"diagnostics-backend/internal/config"
	"diagnostics-backend/internal/notify"

	"github.com/rs/zerolog"
)

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.DriverMemory}
	repos, err := openStore(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repos.Backend.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	if _, err := openStore(context.Background(), &config.Config{StoreDriver: "sqlite"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNewDispatcher_WithoutCredentialsDisablesChannels(t *testing.T) {
	cfg := &config.Config{NotifyTimeout: time.Second}
	d, err := newDispatcher(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	for _, ch := range []notify.Channel{notify.ChannelEmail, notify.ChannelSMS, notify.ChannelPush} {
		if err := d.Deliver(context.Background(), notify.Message{Channel: ch, To: "x"}); !errors.Is(err, notify.ErrChannelDisabled) {
			t.Errorf("%s: expected ErrChannelDisabled, got %v", ch, err)
		}
	}
}

func TestNewPaymentGateway(t *testing.T) {
	if gw := newPaymentGateway(&config.Config{}); gw != nil {
		t.Error("expected no gateway without a server key")
	}
	if gw := newPaymentGateway(&config.Config{MidtransServerKey: "SB-Mid-server-x"}); gw == nil {
		t.Error("expected gateway with a server key")
	}
}

func TestNewLogger_Level(t *testing.T) {
	logger := newLogger(&config.Config{Env: "production", LogLevel: "warn"})
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %s, want warn", logger.GetLevel())
	}
	logger = newLogger(&config.Config{Env: "production", LogLevel: "chatty"})
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %s, want info fallback", logger.GetLevel())
	}
}
