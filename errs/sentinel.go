// Package errs provides predefined sentinel errors for common failure cases.
package errs

// Fd-range set errors.
var (
	// ErrFdRangeExists indicates an insert overlapped an existing range.
	ErrFdRangeExists = &Error{Kind: KindResource, Detail: "fd range already present"}

	// ErrFdRangeNotFound indicates a remove targeted a range not covered by the set.
	ErrFdRangeNotFound = &Error{Kind: KindResource, Detail: "fd range not found"}
)

// Error-frame engine errors.
var (
	// ErrFrameShortWrite indicates freeze wrote fewer bytes than expected.
	ErrFrameShortWrite = &Error{Kind: KindProtocol, Detail: "short write freezing error frame"}

	// ErrFrameShortRead indicates thaw read fewer bytes than expected.
	ErrFrameShortRead = &Error{Kind: KindProtocol, Detail: "short read thawing error frame"}
)

// Deadline errors.
var (
	// ErrDeadlineExpired indicates a deadline's duration elapsed without SIGCONT interference.
	ErrDeadlineExpired = &Error{Kind: KindTimeout, Detail: "deadline expired"}
)

// Structured fork / fork channel errors.
var (
	// ErrForkChannelProtocol indicates the fork channel carried a malformed result.
	ErrForkChannelProtocol = &Error{Kind: KindProtocol, Detail: "malformed fork channel result"}

	// ErrForkChildFailed indicates the child reported a failure over the fork channel.
	ErrForkChildFailed = &Error{Kind: KindResource, Detail: "child process failed before exec"}

	// ErrPidReuse indicates a PidSignature mismatch, meaning the pid was recycled.
	ErrPidReuse = &Error{Kind: KindInvariant, Detail: "process id signature mismatch (pid reused)"}
)

// Signal dispatch errors.
var (
	// ErrSignalRestartRejected indicates a handler requested SA_RESTART, which is disallowed.
	ErrSignalRestartRejected = &Error{Kind: KindInvariant, Detail: "SA_RESTART is not permitted for installed handlers"}

	// ErrSignalAbortPending indicates delivery observed a pending programmatic abort.
	ErrSignalAbortPending = &Error{Kind: KindInvariant, Detail: "abort pending"}

	// ErrSignalQuitPending indicates delivery observed a pending programmatic quit.
	ErrSignalQuitPending = &Error{Kind: KindInvariant, Detail: "quit pending"}
)

// Application lock errors.
var (
	// ErrLockNotHeld indicates release was called without a matching acquire.
	ErrLockNotHeld = &Error{Kind: KindInvariant, Detail: "application lock not held by this thread"}
)

// Injected test-harness errors.
var (
	// ErrInjected indicates the error-trigger environment variable fired.
	ErrInjected = &Error{Kind: KindInjected, Detail: "error injected by test trigger"}
)
