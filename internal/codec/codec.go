package codec

import (
	"errors"

	"localkms/internal/domain"
)

var (
	// ErrMalformed is returned when persisted bytes are truncated or do not
	// parse. The file is unusable.
	ErrMalformed = errors.New("codec: malformed snapshot")

	// ErrRevision is returned when a snapshot was written by a newer format
	// revision than this build understands.
	ErrRevision = errors.New("codec: unsupported format revision")
)

// Codec is a stateless snapshot encoding.
type Codec interface {
	Encode(snap domain.Snapshot) ([]byte, error)
	Decode(data []byte) (domain.Snapshot, error)
}
