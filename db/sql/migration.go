package sql

import (
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	log "github.com/sirupsen/logrus"
	"github.com/taskflow/taskflow/db"
)

// migrations lists schema changes applied after table creation, oldest first.
var migrations = []struct {
	version string
	notes   string
	apply   func(d *SqlDb) error
}{
	{
		version: "1.0.0",
		notes:   "lookup indexes",
		apply: func(d *SqlDb) error {
			return d.sql.CreateIndex()
		},
	},
}

func (d *SqlDb) IsMigrationApplied(version string) (bool, error) {
	var migration db.Migration

	err := d.selectOne(&migration, d.builder().
		Select("*").
		From("migrations").
		Where(squirrel.Eq{"version": version}))

	if err == nil {
		return true, nil
	}

	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}

	return false, err
}

// Migrate creates missing tables and applies pending migrations.
func (d *SqlDb) Migrate() error {
	if err := d.sql.CreateTablesIfNotExists(); err != nil {
		return err
	}

	for _, m := range migrations {
		applied, err := d.IsMigrationApplied(m.version)
		if err != nil {
			return err
		}

		if applied {
			continue
		}

		log.WithField("version", m.version).Info("applying migration")

		if err = m.apply(d); err != nil {
			return err
		}

		now := time.Now().UTC()
		notes := m.notes
		if err = d.sql.Insert(&db.Migration{
			Version:      m.version,
			UpgradedDate: &now,
			Notes:        &notes,
		}); err != nil {
			return err
		}
	}

	return nil
}
