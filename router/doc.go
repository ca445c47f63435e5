// Package router dispatches inbound MQTT messages to handler functions.
//
// Routes are topic paths whose segments may capture values: the route
// "sensors/:room/temp" subscribes to "sensors/+/temp" and, for a message
// on "sensors/hall/temp", invokes its handler with the capture
// room=hall. A trailing "#" matches the rest of a topic. Captures are
// read with Request.Param or bound to a struct with Request.BindParams.
//
// Wire a router to a client by registering routes and pumping the
// client's subscriber stream through Serve:
//
//	r := router.New(client)
//	err := r.Route(ctx, "devices/:device/command", onCommand)
//	...
//	messages, err := client.Subscriber()
//	...
//	err = r.Serve(ctx, messages)
package router
