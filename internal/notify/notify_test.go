package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeEmail struct {
	mu    sync.Mutex
	sent  []Message
	err   error
	block chan struct{}
}

func (f *fakeEmail) SendEmail(ctx context.Context, to, subject, body string) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, Message{Channel: ChannelEmail, To: to, Subject: subject, Body: body})
	return f.err
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to+": "+body)
	return nil
}

type fakePush struct {
	topic, title string
	data         map[string]string
}

func (f *fakePush) SendPush(_ context.Context, topic, title, _ string, data map[string]string) error {
	f.topic, f.title, f.data = topic, title, data
	return nil
}

// collect returns a channel receiving every outcome from d.
func collect(d *Dispatcher) <-chan Outcome {
	ch := make(chan Outcome, 16)
	d.Observe(func(o Outcome) { ch <- o })
	return ch
}

func waitOutcome(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outcome")
		return Outcome{}
	}
}

func TestDispatch_RoutesByChannel(t *testing.T) {
	email, sms, push := &fakeEmail{}, &fakeSMS{}, &fakePush{}
	d := New(zerolog.Nop(), WithEmail(email), WithSMS(sms), WithPush(push))
	outcomes := collect(d)

	d.Dispatch(Message{Channel: ChannelEmail, To: "a@example.com", Subject: "Hi", Body: "body"})
	d.Dispatch(Message{Channel: ChannelSMS, To: "+2348000000000", Body: "P1000"})
	d.Dispatch(Message{Channel: ChannelPush, To: "admin", Subject: "New patient", Data: map[string]string{"patient_no": "P1000"}})

	for i := 0; i < 3; i++ {
		if o := waitOutcome(t, outcomes); !o.OK() {
			t.Fatalf("unexpected failure on %s: %v", o.Message.Channel, o.Err)
		}
	}
	if len(email.sent) != 1 || email.sent[0].Subject != "Hi" {
		t.Errorf("email not delivered: %+v", email.sent)
	}
	if len(sms.sent) != 1 || sms.sent[0] != "+2348000000000: P1000" {
		t.Errorf("sms not delivered: %+v", sms.sent)
	}
	if push.topic != "admin" || push.data["patient_no"] != "P1000" {
		t.Errorf("push not delivered: %+v", push)
	}
}

func TestDispatch_FailureIsReportedNotRaised(t *testing.T) {
	boom := errors.New("smtp down")
	d := New(zerolog.Nop(), WithEmail(&fakeEmail{err: boom}))
	outcomes := collect(d)

	d.Dispatch(Message{Channel: ChannelEmail, To: "a@example.com"})

	o := waitOutcome(t, outcomes)
	if !errors.Is(o.Err, boom) {
		t.Fatalf("expected %v, got %v", boom, o.Err)
	}
	if o.At.IsZero() {
		t.Error("outcome has no timestamp")
	}
}

func TestDispatch_DisabledChannel(t *testing.T) {
	d := New(zerolog.Nop())
	outcomes := collect(d)

	d.Dispatch(Message{Channel: ChannelSMS, To: "+1"})

	if o := waitOutcome(t, outcomes); !errors.Is(o.Err, ErrChannelDisabled) {
		t.Fatalf("expected ErrChannelDisabled, got %v", o.Err)
	}
}

func TestDispatch_TimeoutBoundsDelivery(t *testing.T) {
	d := New(zerolog.Nop(), WithEmail(&fakeEmail{block: make(chan struct{})}), WithTimeout(20*time.Millisecond))
	outcomes := collect(d)

	d.Dispatch(Message{Channel: ChannelEmail, To: "slow@example.com"})

	if o := waitOutcome(t, outcomes); !errors.Is(o.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", o.Err)
	}
}

func TestShutdown_WaitsForInFlight(t *testing.T) {
	release := make(chan struct{})
	email := &fakeEmail{block: release}
	d := New(zerolog.Nop(), WithEmail(email))
	d.Dispatch(Message{Channel: ChannelEmail, To: "a@example.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected shutdown to time out while delivery blocked, got %v", err)
	}

	close(release)
	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if len(email.sent) != 1 {
		t.Fatalf("expected in-flight email to complete, got %d", len(email.sent))
	}
}

func TestDispatch_AfterShutdown(t *testing.T) {
	email := &fakeEmail{}
	d := New(zerolog.Nop(), WithEmail(email))
	outcomes := collect(d)
	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	d.Dispatch(Message{Channel: ChannelEmail, To: "late@example.com"})

	if o := waitOutcome(t, outcomes); !errors.Is(o.Err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", o.Err)
	}
	if len(email.sent) != 0 {
		t.Error("message delivered after shutdown")
	}
}

func TestShutdown_ConcurrentWithDispatch(t *testing.T) {
	email := &fakeEmail{}
	d := New(zerolog.Nop(), WithEmail(email))

	var (
		mu        sync.Mutex
		delivered int
		rejected  int
	)
	d.Observe(func(o Outcome) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case o.OK():
			delivered++
		case errors.Is(o.Err, ErrClosed):
			rejected++
		}
	})

	const senders = 50
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			d.Dispatch(Message{Channel: ChannelEmail, To: "a@example.com"})
		}()
	}
	close(start)
	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if delivered+rejected != senders {
		t.Fatalf("delivered %d + rejected %d != %d", delivered, rejected, senders)
	}
	email.mu.Lock()
	defer email.mu.Unlock()
	if len(email.sent) != delivered {
		t.Errorf("sent %d emails, observed %d deliveries", len(email.sent), delivered)
	}
}
