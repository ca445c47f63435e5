// Package mosq is an asynchronous MQTT client built on the libmosquitto
// engine.
//
// The engine (see the libmosq subpackage) is synchronous and
// callback-driven: commands return an engine-assigned message ID
// immediately, and completion arrives later on the engine's network loop
// thread. This package adds the correlation layer that turns that
// callback surface into ordinary blocking Go calls:
//
//   - Connect, Publish, Subscribe and Unsubscribe issue the engine
//     command and wait, under a caller-supplied context, for the matching
//     acknowledgment.
//   - Inbound messages flow through an unbounded FIFO queue to the single
//     channel returned by Subscriber.
//   - Completion waiters are registered before the engine can possibly
//     acknowledge, so an acknowledgment is never lost to a scheduling
//     race.
//
// # Usage
//
//	client, err := mosq.NewClient(mosq.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	if _, err := client.Connect(ctx, "localhost", 1883, 60, ""); err != nil {
//	    log.Fatal(err)
//	}
//
//	messages, err := client.Subscriber()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := client.Subscribe(ctx, "sensors/#", 1); err != nil {
//	    log.Fatal(err)
//	}
//
//	for msg := range messages {
//	    log.Printf("%s: %s", msg.Topic, msg.Payload)
//	}
//
// # Thread safety
//
// All Client methods are safe for concurrent use. Callbacks never block
// on callers: a caller that stops waiting (context cancellation) leaves
// no dangling state behind.
//
// # Platforms
//
// The engine is loaded at runtime from the host's libmosquitto shared
// library; Linux, macOS and FreeBSD are supported.
package mosq
