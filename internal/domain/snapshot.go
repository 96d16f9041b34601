package domain

// Snapshot is the stable persisted shape of a versioned store. It carries no
// concurrency state: the live store converts to and from this plain value at
// the codec boundary. Field order is fixed, count before store, in every
// encoding.
type Snapshot struct {
	Count uint64               `json:"count"`
	Store map[uint64]KeyRecord `json:"store"`
}

// KeyRecord is the persisted shape of a Key.
type KeyRecord struct {
	Data    []byte `json:"data"`
	Created uint64 `json:"created"`
}

// Record converts a Key to its persisted shape.
func (k Key) Record() KeyRecord {
	return KeyRecord{Data: k.Data(), Created: k.created}
}

// Key converts a persisted record back to a live Key.
func (r KeyRecord) Key() Key {
	return NewKeyAt(r.Data, r.Created)
}
