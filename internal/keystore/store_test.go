package keystore_test

import (
	"errors"
	"sync"
	"testing"

	"localkms/internal/domain"
	"localkms/internal/keystore"
)

// makeKey returns a key with a fixed timestamp for comparisons.
func makeKey(t *testing.T, payload ...byte) domain.Key {
	t.Helper()
	b := domain.NewKeyBuilder(payload)
	b.SetCreated(1700000000)
	return b.Build()
}

func TestUpdateAssignsSequentialVersions(t *testing.T) {
	s := keystore.New()

	for i, payload := range []byte{10, 1, 2, 4} {
		version, err := s.Update(makeKey(t, payload))
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if want := uint64(i + 1); version != want {
			t.Fatalf("got version %d, want %d", version, want)
		}
	}

	count, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 4 {
		t.Fatalf("got count %d, want 4", count)
	}
}

func TestConcurrentUpdatesNoGapsNoDuplicates(t *testing.T) {
	const n = 128

	s := keystore.New()
	versions := make(chan uint64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			version, err := s.Update(makeKey(t, 0xAB))
			if err != nil {
				t.Errorf("Update: %v", err)
				return
			}
			versions <- version
		}()
	}
	wg.Wait()
	close(versions)

	seen := make(map[uint64]bool, n)
	for v := range versions {
		if seen[v] {
			t.Fatalf("version %d assigned twice", v)
		}
		seen[v] = true
	}
	for v := uint64(1); v <= n; v++ {
		if !seen[v] {
			t.Fatalf("version %d never assigned", v)
		}
	}

	count, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != n {
		t.Fatalf("got count %d, want %d", count, n)
	}
}

func TestDropRetiresVersion(t *testing.T) {
	s := keystore.New()
	if _, err := s.Update(makeKey(t, 1)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := s.Update(makeKey(t, 2)); err != nil {
		t.Fatalf("Update: %v", err)
	}

	dropped, err := s.Drop(2)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if got := dropped.Data(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("dropped wrong record: %v", got)
	}

	if _, err := s.Get(2); !errors.Is(err, keystore.ErrNotFound) {
		t.Fatalf("Get after Drop: got %v, want ErrNotFound", err)
	}
	if _, err := s.Drop(2); !errors.Is(err, keystore.ErrNotFound) {
		t.Fatalf("second Drop: got %v, want ErrNotFound", err)
	}

	// The counter is untouched by Drop; the next insert skips the retired id.
	count, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Fatalf("got count %d, want 2", count)
	}
	version, err := s.Update(makeKey(t, 3))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if version != 3 {
		t.Fatalf("got version %d, want 3", version)
	}
}

func TestLatestTracksMaxPresentVersion(t *testing.T) {
	s := keystore.New()

	if _, err := s.Latest(); !errors.Is(err, keystore.ErrNotFound) {
		t.Fatalf("Latest on empty store: got %v, want ErrNotFound", err)
	}

	for _, payload := range []byte{10, 1, 2, 4} {
		if _, err := s.Update(makeKey(t, payload)); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	vk, err := s.LatestVersioned()
	if err != nil {
		t.Fatalf("LatestVersioned: %v", err)
	}
	if vk.Version != 4 {
		t.Fatalf("got latest version %d, want 4", vk.Version)
	}
	got, err := s.Get(vk.Version)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Data()[0] != vk.Key.Data()[0] {
		t.Fatalf("Latest disagrees with Get at version %d", vk.Version)
	}

	// Dropping the newest record moves latest down but not the counter.
	if _, err := s.Drop(4); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	vk, err = s.LatestVersioned()
	if err != nil {
		t.Fatalf("LatestVersioned: %v", err)
	}
	if vk.Version != 3 {
		t.Fatalf("got latest version %d after drop, want 3", vk.Version)
	}
	count, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 4 {
		t.Fatalf("got count %d after drop, want 4", count)
	}
}

func TestGetVersionedEchoesVersion(t *testing.T) {
	s := keystore.New()
	if _, err := s.Update(makeKey(t, 7)); err != nil {
		t.Fatalf("Update: %v", err)
	}

	vk, err := s.GetVersioned(1)
	if err != nil {
		t.Fatalf("GetVersioned: %v", err)
	}
	if vk.Version != 1 || vk.Key.Data()[0] != 7 {
		t.Fatalf("got (%d, %v)", vk.Version, vk.Key.Data())
	}
	if _, err := s.GetVersioned(99); !errors.Is(err, keystore.ErrNotFound) {
		t.Fatalf("missing version: got %v, want ErrNotFound", err)
	}
}

func TestGetReturnsIndependentCopy(t *testing.T) {
	s := keystore.New()
	if _, err := s.Update(makeKey(t, 1, 2, 3)); err != nil {
		t.Fatalf("Update: %v", err)
	}

	first, err := s.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	data := first.Data()
	data[0] = 0xFF

	second, err := s.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if second.Data()[0] != 1 {
		t.Fatalf("store record mutated through a returned copy")
	}
}

func TestRangeVisitsAllEntries(t *testing.T) {
	s := keystore.New()
	for _, payload := range []byte{10, 1, 2, 4} {
		if _, err := s.Update(makeKey(t, payload)); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	visited := make(map[uint64]byte)
	err := s.Range(func(version uint64, key domain.Key) bool {
		visited[version] = key.Data()[0]
		return true
	})
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	want := map[uint64]byte{1: 10, 2: 1, 3: 2, 4: 4}
	if len(visited) != len(want) {
		t.Fatalf("visited %d entries, want %d", len(visited), len(want))
	}
	for v, p := range want {
		if visited[v] != p {
			t.Fatalf("version %d: got payload %d, want %d", v, visited[v], p)
		}
	}

	// Early stop.
	calls := 0
	err = s.Range(func(uint64, domain.Key) bool {
		calls++
		return false
	})
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if calls != 1 {
		t.Fatalf("Range did not stop after fn returned false (calls=%d)", calls)
	}
}

func TestPanicInRangePoisonsStore(t *testing.T) {
	s := keystore.New()
	if _, err := s.Update(makeKey(t, 1)); err != nil {
		t.Fatalf("Update: %v", err)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("panic did not propagate out of Range")
			}
		}()
		_ = s.Range(func(uint64, domain.Key) bool { panic("boom") })
	}()

	if _, err := s.Get(1); !errors.Is(err, keystore.ErrPoisoned) {
		t.Fatalf("Get on poisoned store: got %v, want ErrPoisoned", err)
	}
	if _, err := s.Update(makeKey(t, 2)); !errors.Is(err, keystore.ErrPoisoned) {
		t.Fatalf("Update on poisoned store: got %v, want ErrPoisoned", err)
	}
	if _, err := s.Count(); !errors.Is(err, keystore.ErrPoisoned) {
		t.Fatalf("Count on poisoned store: got %v, want ErrPoisoned", err)
	}
	if _, err := s.Snapshot(); !errors.Is(err, keystore.ErrPoisoned) {
		t.Fatalf("Snapshot on poisoned store: got %v, want ErrPoisoned", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := keystore.New()
	for _, payload := range []byte{10, 1, 2, 4} {
		if _, err := s.Update(makeKey(t, payload)); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if _, err := s.Drop(2); err != nil {
		t.Fatalf("Drop: %v", err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Count != 4 {
		t.Fatalf("snapshot count %d, want 4", snap.Count)
	}
	if len(snap.Store) != 3 {
		t.Fatalf("snapshot has %d entries, want 3", len(snap.Store))
	}

	restored := keystore.FromSnapshot(snap)
	count, err := restored.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 4 {
		t.Fatalf("restored count %d, want 4", count)
	}
	if _, err := restored.Get(2); !errors.Is(err, keystore.ErrNotFound) {
		t.Fatalf("dropped entry resurrected: %v", err)
	}
	got, err := restored.Get(4)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Data()[0] != 4 || got.Created() != 1700000000 {
		t.Fatalf("restored record mismatch: %v created %d", got.Data(), got.Created())
	}
}
