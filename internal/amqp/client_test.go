package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"jobtrend/internal/fetch"
)

type fakePublisher struct {
	exchange, key string
	msg           amqp091.Publishing
	err           error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestNotifyLoaded(t *testing.T) {
	pub := &fakePublisher{}
	c := &Client{pub: pub, exchangeName: "jobtrend", routingKey: "jobs.loaded"}
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	err := c.NotifyLoaded(context.Background(), fetch.Summary{
		Source: "remote", Cycle: 2, Records: 10, Dropped: 1, Months: 4, At: at,
	})
	if err != nil {
		t.Fatalf("NotifyLoaded: %v", err)
	}
	if pub.exchange != "jobtrend" || pub.key != "jobs.loaded" {
		t.Errorf("published to %s/%s", pub.exchange, pub.key)
	}
	if pub.msg.ContentType != "application/json" || pub.msg.DeliveryMode != amqp091.Persistent {
		t.Errorf("publishing = %+v", pub.msg)
	}
	msg, err := JobsLoadedMessageFromJSON(pub.msg.Body)
	if err != nil {
		t.Fatal(err)
	}
	want := JobsLoadedMessage{Source: "remote", Cycle: 2, Records: 10, Dropped: 1, Months: 4, Timestamp: at}
	if *msg != want {
		t.Errorf("message = %+v, want %+v", *msg, want)
	}
}

func TestNotifyLoadedError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	c := &Client{pub: pub, exchangeName: "x", routingKey: "k"}
	if err := c.NotifyLoaded(context.Background(), fetch.Summary{Failed: true}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewJobsLoadedMessageDefaultsTimestamp(t *testing.T) {
	msg := NewJobsLoadedMessage(fetch.Summary{Source: "memory"})
	if msg.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

type fakeAcker struct {
	acks, nacks int
}

func (a *fakeAcker) Ack(uint64, bool) error        { a.acks++; return nil }
func (a *fakeAcker) Nack(uint64, bool, bool) error { a.nacks++; return nil }
func (a *fakeAcker) Reject(uint64, bool) error     { a.nacks++; return nil }

func TestConsume(t *testing.T) {
	acker := &fakeAcker{}
	msgs := make(chan amqp091.Delivery, 2)
	good, _ := NewJobsLoadedMessage(fetch.Summary{Source: "remote", Records: 3}).ToJSON()
	msgs <- amqp091.Delivery{Acknowledger: acker, Body: good}
	msgs <- amqp091.Delivery{Acknowledger: acker, Body: []byte("{")}
	close(msgs)

	var got []*JobsLoadedMessage
	err := consume(context.Background(), msgs, func(m *JobsLoadedMessage) error {
		got = append(got, m)
		return nil
	})
	if err == nil {
		t.Fatal("closed channel should end consumption with an error")
	}
	if len(got) != 1 || got[0].Records != 3 {
		t.Fatalf("handled = %+v", got)
	}
	if acker.acks != 1 || acker.nacks != 1 {
		t.Errorf("acks=%d nacks=%d", acker.acks, acker.nacks)
	}
}
