package sql

import (
	"github.com/taskflow/taskflow/util"
)

// CreateTestStore returns a migrated store backed by a private in-memory sqlite database.
func CreateTestStore() *SqlDb {
	store := NewSqlDb(util.DbDriverSQLite, util.DbConfig{
		Hostname: ":memory:",
	})

	if err := store.Connect("test"); err != nil {
		panic(err)
	}

	if err := store.Migrate(); err != nil {
		panic(err)
	}

	return store
}
