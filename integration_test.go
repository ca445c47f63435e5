//go:build integration && (linux || darwin || freebsd)

package mosq

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Integration tests require libmosquitto installed and a broker at
// 127.0.0.1:1883 (override the host with MQTT_SERVER).
//
// Run with:
//   go test -tags=integration -v .

func brokerHost() string {
	if h := os.Getenv("MQTT_SERVER"); h != "" {
		return h
	}
	return "127.0.0.1"
}

func integrationOptions() Options {
	opts := DefaultOptions()
	opts.ClientID = "mosq-int-" + uuid.NewString()[:8]
	return opts
}

func TestIntegration_ConnectClose(t *testing.T) {
	client, err := NewClient(integrationOptions())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status, err := client.Connect(ctx, brokerHost(), 1883, 5, "")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if status != StatusAccepted {
		t.Errorf("Connect() status = %v, want StatusAccepted", status)
	}
	if !client.IsConnected() {
		t.Error("IsConnected() = false, want true")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.State() != StateClosed {
		t.Errorf("State() = %v after Close, want StateClosed", client.State())
	}
}

func TestIntegration_PubSub(t *testing.T) {
	client, err := NewClient(integrationOptions())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.Connect(ctx, brokerHost(), 1883, 5, ""); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	stream, err := client.Subscriber()
	if err != nil {
		t.Fatalf("Subscriber() error = %v", err)
	}
	if _, err := client.Subscribe(ctx, "test/#", 1); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if _, err := client.Publish(ctx, "test/this", []byte("woot"), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case m := <-stream:
		if m.Topic != "test/this" {
			t.Errorf("message topic = %q, want %q", m.Topic, "test/this")
		}
		if string(m.Payload) != "woot" {
			t.Errorf("message payload = %q, want %q", m.Payload, "woot")
		}
	case <-ctx.Done():
		t.Fatal("message never delivered")
	}
}

func TestIntegration_UnsubscribeStopsDelivery(t *testing.T) {
	client, err := NewClient(integrationOptions())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.Connect(ctx, brokerHost(), 1883, 5, ""); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	stream, err := client.Subscriber()
	if err != nil {
		t.Fatalf("Subscriber() error = %v", err)
	}
	topic := "test/unsub/" + uuid.NewString()[:8]
	if _, err := client.Subscribe(ctx, topic, 1); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if err := client.Unsubscribe(ctx, topic); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if _, err := client.Publish(ctx, topic, []byte("gone"), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case m := <-stream:
		t.Errorf("received %q on %q after Unsubscribe", m.Payload, m.Topic)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestIntegration_ConnectUnreachable(t *testing.T) {
	client, err := NewClient(integrationOptions())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Port 1 is never a broker.
	_, err = client.Connect(ctx, "127.0.0.1", 1, 5, "")
	if err == nil {
		t.Fatal("Connect() to unreachable port succeeded")
	}
	if !errors.Is(err, ErrConnectFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectFailed", err)
	}
	if errors.Is(err, ErrConnectionRefused) {
		t.Error("transport failure reported as broker refusal")
	}
}

func TestIntegration_QoS0Publish(t *testing.T) {
	client, err := NewClient(integrationOptions())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.Connect(ctx, brokerHost(), 1883, 5, ""); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	pubCtx, pubCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pubCancel()
	if _, err := client.Publish(pubCtx, "test/qos0", []byte("fire and forget"), 0, false); err != nil {
		t.Errorf("Publish() error = %v", err)
	}
}

func TestIntegration_SessionOptions(t *testing.T) {
	opts := integrationOptions()
	opts.Will = &WillOptions{Topic: "test/will", Payload: []byte("gone"), QoS: 1}
	opts.Reconnect = &ReconnectOptions{InitialDelay: time.Second, MaxDelay: 10 * time.Second, Exponential: true}

	client, err := NewClient(opts)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.Connect(ctx, brokerHost(), 1883, 5, ""); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
}
