package codec

import (
	"encoding/json"
	"fmt"

	"localkms/internal/domain"
)

// JSON is the textual snapshot encoding. Struct field order keeps the count
// ahead of the entries in the output.
type JSON struct{}

func (JSON) Encode(snap domain.Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

func (JSON) Decode(data []byte) (domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if snap.Store == nil {
		snap.Store = make(map[uint64]domain.KeyRecord)
	}
	return snap, nil
}

var _ Codec = JSON{}
