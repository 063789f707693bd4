package port

type SessionVerifier interface {
	// Verify reports whether the given session cookie value represents a
	// valid, unexpired session. Session issuance happens elsewhere; this
	// service only consumes the capability.
	Verify(value string) bool
}
