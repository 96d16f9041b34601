package sqlstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"localkms/internal/domain"
	"localkms/internal/keystore"
	"localkms/internal/sqlstore"
)

func populate(t *testing.T) *keystore.Store {
	t.Helper()
	s := keystore.New()
	for _, payload := range []byte{10, 1, 2, 4} {
		b := domain.NewKeyBuilder([]byte{payload})
		b.SetCreated(1700000000)
		_, err := s.Update(b.Build())
		require.NoError(t, err)
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	db, err := sqlstore.New(populate(t), path)
	require.NoError(t, err)
	require.NoError(t, db.Save())
	require.NoError(t, db.Close())

	loaded, err := sqlstore.Load(path)
	require.NoError(t, err)
	defer loaded.Close()

	count, err := loaded.Count()
	require.NoError(t, err)
	require.EqualValues(t, 4, count)

	for version, payload := range map[uint64]byte{1: 10, 2: 1, 3: 2, 4: 4} {
		key, err := loaded.Get(version)
		require.NoError(t, err, "version %d", version)
		require.Equal(t, []byte{payload}, key.Data())
		require.EqualValues(t, 1700000000, key.Created())
	}
}

func TestLoadEmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	db, err := sqlstore.Load(path)
	require.NoError(t, err)
	defer db.Close()

	count, err := db.Count()
	require.NoError(t, err)
	require.Zero(t, count)
	_, err = db.Latest()
	require.ErrorIs(t, err, keystore.ErrNotFound)
}

func TestSaveReplacesDroppedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	db, err := sqlstore.New(populate(t), path)
	require.NoError(t, err)
	require.NoError(t, db.Save())

	_, err = db.Drop(2)
	require.NoError(t, err)
	require.NoError(t, db.Save())
	require.NoError(t, db.Close())

	loaded, err := sqlstore.Load(path)
	require.NoError(t, err)
	defer loaded.Close()

	_, err = loaded.Get(2)
	require.ErrorIs(t, err, keystore.ErrNotFound)

	// The counter survives independently of the dropped row.
	count, err := loaded.Count()
	require.NoError(t, err)
	require.EqualValues(t, 4, count)

	version, err := loaded.Update(domain.NewKeyBuilder([]byte("next")).Build())
	require.NoError(t, err)
	require.EqualValues(t, 5, version)
}
