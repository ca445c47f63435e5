//go:build linux || darwin || freebsd

package libmosq

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

// engine is the function table of the loaded library. Populated once by
// Init, read-only afterwards.
var engine struct {
	libInit    func() int32
	libVersion func(major, minor, revision *int32) int32

	newClient func(id *byte, cleanSession bool, userdata uintptr) uintptr
	destroy   func(m uintptr)

	connectBind func(m uintptr, host *byte, port, keepalive int32, bindAddress *byte) int32
	reconnect   func(m uintptr) int32
	disconnect  func(m uintptr) int32
	publish     func(m uintptr, mid *int32, topic *byte, payloadlen int32, payload *byte, qos int32, retain bool) int32
	subscribe   func(m uintptr, mid *int32, pattern *byte, qos int32) int32
	unsubscribe func(m uintptr, mid *int32, pattern *byte) int32

	loopStart func(m uintptr) int32
	loopStop  func(m uintptr, force bool) int32

	usernamePwSet     func(m uintptr, username, password *byte) int32
	willSet           func(m uintptr, topic *byte, payloadlen int32, payload *byte, qos int32, retain bool) int32
	willClear         func(m uintptr) int32
	tlsSet            func(m uintptr, caFile, caPath, certFile, keyFile *byte, pwCallback uintptr) int32
	tlsInsecureSet    func(m uintptr, value bool) int32
	intOption         func(m uintptr, option, value int32) int32
	reconnectDelaySet func(m uintptr, delay, delayMax uint32, exponential bool) int32

	connectCallbackSet     func(m uintptr, cb uintptr)
	disconnectCallbackSet  func(m uintptr, cb uintptr)
	publishCallbackSet     func(m uintptr, cb uintptr)
	subscribeCallbackSet   func(m uintptr, cb uintptr)
	unsubscribeCallbackSet func(m uintptr, cb uintptr)
	messageCallbackSet     func(m uintptr, cb uintptr)
}

var (
	initOnce sync.Once
	initErr  error
)

// Init loads the shared library and runs the engine's one-time global
// initialisation. Safe to call from multiple goroutines; every call after
// the first returns the first outcome. New calls Init implicitly.
//
// The engine is never torn down: global cleanup would invalidate clients
// held elsewhere in the process.
func Init() error {
	initOnce.Do(func() { initErr = load() })
	return initErr
}

// LibraryVersion identifies the loaded engine build.
type LibraryVersion struct {
	Major    int
	Minor    int
	Revision int

	// Packed is the single combined number the engine reports
	// (major*1000000 + minor*1000 + revision).
	Packed int
}

func (v LibraryVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Revision)
}

// Version reports the version of the loaded engine library, loading it
// first if necessary.
func Version() (LibraryVersion, error) {
	if err := Init(); err != nil {
		return LibraryVersion{}, err
	}
	var major, minor, revision int32
	packed := engine.libVersion(&major, &minor, &revision)
	return LibraryVersion{
		Major:    int(major),
		Minor:    int(minor),
		Revision: int(revision),
		Packed:   int(packed),
	}, nil
}

func load() error {
	h, err := open()
	if err != nil {
		return err
	}

	for _, s := range []struct {
		fn   any
		name string
	}{
		{&engine.libInit, "mosquitto_lib_init"},
		{&engine.libVersion, "mosquitto_lib_version"},
		{&engine.newClient, "mosquitto_new"},
		{&engine.destroy, "mosquitto_destroy"},
		{&engine.connectBind, "mosquitto_connect_bind"},
		{&engine.reconnect, "mosquitto_reconnect"},
		{&engine.disconnect, "mosquitto_disconnect"},
		{&engine.publish, "mosquitto_publish"},
		{&engine.subscribe, "mosquitto_subscribe"},
		{&engine.unsubscribe, "mosquitto_unsubscribe"},
		{&engine.loopStart, "mosquitto_loop_start"},
		{&engine.loopStop, "mosquitto_loop_stop"},
		{&engine.usernamePwSet, "mosquitto_username_pw_set"},
		{&engine.willSet, "mosquitto_will_set"},
		{&engine.willClear, "mosquitto_will_clear"},
		{&engine.tlsSet, "mosquitto_tls_set"},
		{&engine.tlsInsecureSet, "mosquitto_tls_insecure_set"},
		{&engine.intOption, "mosquitto_int_option"},
		{&engine.reconnectDelaySet, "mosquitto_reconnect_delay_set"},
		{&engine.connectCallbackSet, "mosquitto_connect_callback_set"},
		{&engine.disconnectCallbackSet, "mosquitto_disconnect_callback_set"},
		{&engine.publishCallbackSet, "mosquitto_publish_callback_set"},
		{&engine.subscribeCallbackSet, "mosquitto_subscribe_callback_set"},
		{&engine.unsubscribeCallbackSet, "mosquitto_unsubscribe_callback_set"},
		{&engine.messageCallbackSet, "mosquitto_message_callback_set"},
	} {
		if err := register(s.fn, h, s.name); err != nil {
			return err
		}
	}

	if rc := engine.libInit(); rc != 0 {
		return fmt.Errorf("%w: lib_init: %w", ErrLoad, Errno(rc))
	}
	return nil
}

// open tries the platform's conventional library names, most specific
// first.
func open() (uintptr, error) {
	var names []string
	switch runtime.GOOS {
	case "darwin":
		names = []string{"libmosquitto.1.dylib", "libmosquitto.dylib"}
	default:
		names = []string{"libmosquitto.so.1", "libmosquitto.so"}
	}

	var firstErr error
	for _, name := range names {
		h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			return h, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return 0, fmt.Errorf("%w: %v", ErrLoad, firstErr)
}

// register adapts purego.RegisterLibFunc, which panics on a missing
// symbol, into an error return.
func register(fptr any, lib uintptr, name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: symbol %s: %v", ErrLoad, name, r)
		}
	}()
	purego.RegisterLibFunc(fptr, lib, name)
	return nil
}
