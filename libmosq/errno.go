//go:build linux || darwin || freebsd

package libmosq

import "fmt"

// Errno is a libmosquitto return code. The zero value means success and is
// never returned as an error; every other value satisfies the error
// interface and can be matched with errors.Is or extracted with errors.As.
type Errno int32

// Engine return codes, as defined by mosq_err_t.
const (
	ErrnoAuthContinue      Errno = -4
	ErrnoNoSubscribers     Errno = -3
	ErrnoSubExists         Errno = -2
	ErrnoConnPending       Errno = -1
	ErrnoSuccess           Errno = 0
	ErrnoNoMem             Errno = 1
	ErrnoProtocol          Errno = 2
	ErrnoInval             Errno = 3
	ErrnoNoConn            Errno = 4
	ErrnoConnRefused       Errno = 5
	ErrnoNotFound          Errno = 6
	ErrnoConnLost          Errno = 7
	ErrnoTLS               Errno = 8
	ErrnoPayloadSize       Errno = 9
	ErrnoNotSupported      Errno = 10
	ErrnoAuth              Errno = 11
	ErrnoACLDenied         Errno = 12
	ErrnoUnknown           Errno = 13
	ErrnoSyscall           Errno = 14
	ErrnoEAI               Errno = 15
	ErrnoProxy             Errno = 16
	ErrnoPluginDefer       Errno = 17
	ErrnoMalformedUTF8     Errno = 18
	ErrnoKeepalive         Errno = 19
	ErrnoLookup            Errno = 20
	ErrnoMalformedPacket   Errno = 21
	ErrnoDuplicateProperty Errno = 22
	ErrnoTLSHandshake      Errno = 23
	ErrnoQoSNotSupported   Errno = 24
	ErrnoOversizePacket    Errno = 25
	ErrnoOCSP              Errno = 26
)

// errnoText carries the engine's descriptions so codes render without a
// loaded library.
var errnoText = map[Errno]string{
	ErrnoAuthContinue:      "continue with authentication",
	ErrnoNoSubscribers:     "no subscribers for this topic",
	ErrnoSubExists:         "subscription already exists",
	ErrnoConnPending:       "connection pending",
	ErrnoSuccess:           "no error",
	ErrnoNoMem:             "out of memory",
	ErrnoProtocol:          "a network protocol error occurred when communicating with the broker",
	ErrnoInval:             "invalid function arguments provided",
	ErrnoNoConn:            "the client is not currently connected",
	ErrnoConnRefused:       "the connection was refused",
	ErrnoNotFound:          "message not found (internal error)",
	ErrnoConnLost:          "the connection was lost",
	ErrnoTLS:               "a TLS error occurred",
	ErrnoPayloadSize:       "payload too large",
	ErrnoNotSupported:      "this feature is not supported",
	ErrnoAuth:              "authorisation failed",
	ErrnoACLDenied:         "access denied by ACL",
	ErrnoUnknown:           "unknown error",
	ErrnoSyscall:           "a system call returned an error",
	ErrnoEAI:               "lookup error",
	ErrnoProxy:             "proxy error",
	ErrnoPluginDefer:       "plugin deferred the decision",
	ErrnoMalformedUTF8:     "malformed UTF-8",
	ErrnoKeepalive:         "keepalive exceeded",
	ErrnoLookup:            "DNS lookup error",
	ErrnoMalformedPacket:   "malformed packet",
	ErrnoDuplicateProperty: "duplicate property in packet",
	ErrnoTLSHandshake:      "TLS handshake failed",
	ErrnoQoSNotSupported:   "requested QoS is not supported by the broker",
	ErrnoOversizePacket:    "packet larger than the broker supports",
	ErrnoOCSP:              "OCSP error",
}

// Error implements the error interface.
func (e Errno) Error() string {
	if s, ok := errnoText[e]; ok {
		return "libmosq: " + s
	}
	return fmt.Sprintf("libmosq: unrecognised engine error code %d", int32(e))
}

// result translates an engine return code into a Go error. Success maps
// to nil.
func result(rc int32) error {
	if rc == 0 {
		return nil
	}
	return Errno(rc)
}
