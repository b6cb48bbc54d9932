// Package notify delivers outbound email, SMS and push messages in the
// background. Callers never wait on a delivery; each one ends in an Outcome
// that is logged and handed to any registered observers.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Channel selects the transport a Message is sent over.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

var (
	ErrChannelDisabled = errors.New("notification channel not configured")
	ErrClosed          = errors.New("dispatcher shut down")
)

// Message is one outbound notification. To is an email address, a phone
// number or a push topic depending on Channel.
type Message struct {
	Channel Channel
	To      string
	Subject string
	Body    string
	Data    map[string]string
}

// Outcome reports how a dispatched Message ended.
type Outcome struct {
	Message Message
	Err     error
	At      time.Time
}

func (o Outcome) OK() bool { return o.Err == nil }

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type PushSender interface {
	SendPush(ctx context.Context, topic, title, body string, data map[string]string) error
}

type Option func(*Dispatcher)

func WithEmail(s EmailSender) Option { return func(d *Dispatcher) { d.email = s } }

func WithSMS(s SMSSender) Option { return func(d *Dispatcher) { d.sms = s } }

func WithPush(s PushSender) Option { return func(d *Dispatcher) { d.push = s } }

// WithTimeout bounds each delivery. Zero means no bound.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = timeout }
}

// Dispatcher fans messages out to the configured senders.
type Dispatcher struct {
	email EmailSender
	sms   SMSSender
	push  PushSender

	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time

	mu        sync.RWMutex
	observers []func(Outcome)

	// state guards closed and every wg.Add so none can race with Shutdown.
	state  sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func New(log zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		log: log.With().Str("component", "notify").Logger(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Observe registers fn to receive every Outcome. fn runs on the delivery
// goroutine and must not block for long.
func (d *Dispatcher) Observe(fn func(Outcome)) {
	d.mu.Lock()
	d.observers = append(d.observers, fn)
	d.mu.Unlock()
}

// Dispatch starts delivering msg and returns immediately.
func (d *Dispatcher) Dispatch(msg Message) {
	d.state.Lock()
	if d.closed {
		d.state.Unlock()
		d.report(Outcome{Message: msg, Err: ErrClosed, At: d.now()})
		return
	}
	d.wg.Add(1)
	d.state.Unlock()
	go func() {
		defer d.wg.Done()
		ctx := context.Background()
		if d.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.timeout)
			defer cancel()
		}
		err := d.Deliver(ctx, msg)
		d.report(Outcome{Message: msg, Err: err, At: d.now()})
	}()
}

// Deliver sends msg on the calling goroutine.
func (d *Dispatcher) Deliver(ctx context.Context, msg Message) error {
	switch msg.Channel {
	case ChannelEmail:
		if d.email == nil {
			return ErrChannelDisabled
		}
		return d.email.SendEmail(ctx, msg.To, msg.Subject, msg.Body)
	case ChannelSMS:
		if d.sms == nil {
			return ErrChannelDisabled
		}
		return d.sms.SendSMS(ctx, msg.To, msg.Body)
	case ChannelPush:
		if d.push == nil {
			return ErrChannelDisabled
		}
		return d.push.SendPush(ctx, msg.To, msg.Subject, msg.Body, msg.Data)
	default:
		return fmt.Errorf("unknown channel %q", msg.Channel)
	}
}

func (d *Dispatcher) report(o Outcome) {
	switch {
	case o.Err == nil:
		d.log.Info().Str("channel", string(o.Message.Channel)).Str("to", o.Message.To).
			Str("subject", o.Message.Subject).Msg("notification sent")
	case errors.Is(o.Err, ErrChannelDisabled):
		d.log.Debug().Str("channel", string(o.Message.Channel)).Str("to", o.Message.To).
			Msg("notification skipped, channel not configured")
	default:
		d.log.Error().Err(o.Err).Str("channel", string(o.Message.Channel)).Str("to", o.Message.To).
			Str("subject", o.Message.Subject).Msg("notification failed")
	}

	d.mu.RLock()
	observers := d.observers
	d.mu.RUnlock()
	for _, fn := range observers {
		fn(o)
	}
}

// Shutdown stops accepting messages and waits for in-flight deliveries
// until ctx is done.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.state.Lock()
	d.closed = true
	d.state.Unlock()
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
