package mosq_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mosq-go/mosq"
)

// Example shows the connect, subscribe, publish round trip. It needs a
// broker at 127.0.0.1:1883 and libmosquitto installed.
func Example() {
	client, err := mosq.NewClient(mosq.DefaultOptions())
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.Connect(ctx, "127.0.0.1", 1883, 60, ""); err != nil {
		log.Fatal(err)
	}

	messages, err := client.Subscriber()
	if err != nil {
		log.Fatal(err)
	}
	if _, err := client.Subscribe(ctx, "sensors/#", 1); err != nil {
		log.Fatal(err)
	}
	if _, err := client.Publish(ctx, "sensors/hall/temp", []byte("21.5"), 1, false); err != nil {
		log.Fatal(err)
	}

	m := <-messages
	fmt.Println(m.Topic, string(m.Payload))
}

// ExampleClient_Publish bounds a QoS 0 publish with a deadline; some
// transports never confirm the handoff.
func ExampleClient_Publish() {
	client, err := mosq.NewClient(mosq.DefaultOptions())
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Connect(ctx, "127.0.0.1", 1883, 60, ""); err != nil {
		log.Fatal(err)
	}
	if _, err := client.Publish(ctx, "events/door", []byte("open"), 0, false); err != nil {
		log.Fatal(err)
	}
}
