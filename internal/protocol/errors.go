package protocol

import "errors"

// Every error below is fatal for the connection it occurs on: a mirror whose
// consistency is in doubt cannot be repaired without a fresh world frame, so
// callers tear the transport down instead of patching locally.
var (
	ErrMalformedFrame   = errors.New("protocol: malformed frame")
	ErrUnknownFrameKind = errors.New("protocol: unknown frame kind")
	ErrUnknownCodec     = errors.New("protocol: unknown codec")
	ErrVersionMismatch  = errors.New("protocol: client protocol version mismatch")
	ErrTickGap          = errors.New("protocol: delta tick does not follow mirror tick")
	ErrDuplicateObject  = errors.New("protocol: created object already present")
	ErrUnknownObject    = errors.New("protocol: object not present in mirror")
	ErrEmptyMirror      = errors.New("protocol: delta received before world frame")
	ErrUnexpectedFrame  = errors.New("protocol: frame kind not expected in this state")
)
