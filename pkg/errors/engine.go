package errors

import "fmt"

/*
EngineError classifies the failures the cognitive engine can encounter.
None of them are fatal to the process: decode failures drop the message,
persistence failures leave the previous snapshot authoritative, and a bind
failure only disables networking for this instance.
*/
type EngineError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Kind is the coarse failure category, used for logging and tests.
type Kind string

const (
	KindDecode           Kind = "decode"
	KindPersistenceWrite Kind = "persistence_write"
	KindPersistenceRead  Kind = "persistence_read"
	KindNetworkBind      Kind = "network_bind"
)

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *EngineError) Unwrap() error { return e.Err }

var (
	ErrDecodeFailed     = &EngineError{Kind: KindDecode, Message: "malformed envelope or payload"}
	ErrSnapshotWrite    = &EngineError{Kind: KindPersistenceWrite, Message: "snapshot write failed"}
	ErrSnapshotRead     = &EngineError{Kind: KindPersistenceRead, Message: "snapshot read failed"}
	ErrListenerBind     = &EngineError{Kind: KindNetworkBind, Message: "listener bind failed"}
)

// Wrap returns a copy of an EngineError carrying the underlying cause. The
// template error itself is never mutated.
func (e *EngineError) Wrap(err error) *EngineError {
	copied := *e
	copied.Err = err
	return &copied
}

// WithMessagef returns a copy of an EngineError with a formatted message.
func (e *EngineError) WithMessagef(format string, args ...any) *EngineError {
	copied := *e
	copied.Message = fmt.Sprintf(format, args...)
	return &copied
}
