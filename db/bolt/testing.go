package bolt

import (
	"os"
)

// CreateTestStore returns a migrated store backed by a fresh temporary file.
func CreateTestStore() *BoltDb {
	f, err := os.CreateTemp("", "taskflow-test-*.bolt")
	if err != nil {
		panic(err)
	}
	_ = f.Close()
	_ = os.Remove(f.Name())

	store := NewBoltDb(f.Name())

	if err = store.Connect("test"); err != nil {
		panic(err)
	}

	if err = store.Migrate(); err != nil {
		panic(err)
	}

	return store
}
