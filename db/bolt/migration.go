package bolt

import (
	"encoding/json"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/taskflow/taskflow/db"
	"go.etcd.io/bbolt"
)

var migrationsBucket = []byte("migrations")

// boltMigrations lists data migrations, oldest first.
var boltMigrations = []db.Migration{
	{Version: "1.0.0"},
}

func (d *BoltDb) IsMigrationApplied(migration db.Migration) (bool, error) {
	err := d.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(migrationsBucket)
		if b == nil {
			return db.ErrNotFound
		}

		if b.Get([]byte(migration.Version)) == nil {
			return db.ErrNotFound
		}

		return nil
	})

	if err == nil {
		return true, nil
	}

	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}

	return false, err
}

func (d *BoltDb) ApplyMigration(m db.Migration) (err error) {
	switch m.Version {
	case "1.0.0":
		err = migration_1_0_0{migration{d.db}}.Apply()
	}

	if err != nil {
		return
	}

	return d.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(migrationsBucket)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		m.UpgradedDate = &now

		j, err := json.Marshal(m)
		if err != nil {
			return err
		}

		return b.Put([]byte(m.Version), j)
	})
}

// Migrate applies every migration not yet recorded in the migrations bucket.
func (d *BoltDb) Migrate() error {
	for _, m := range boltMigrations {
		applied, err := d.IsMigrationApplied(m)
		if err != nil {
			return err
		}

		if applied {
			continue
		}

		log.WithField("version", m.Version).Info("applying bolt migration")

		if err = d.ApplyMigration(m); err != nil {
			return err
		}
	}

	return nil
}

type migration struct {
	db *bbolt.DB
}

// getObjects returns raw objects of a bucket keyed by object id.
func (d migration) getObjects(props db.ObjectProps) (map[string]map[string]any, error) {
	objects := make(map[string]map[string]any)

	err := d.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(makeBucketID(props))
		if b == nil {
			return nil
		}
		return b.ForEach(func(id, body []byte) error {
			r := make(map[string]any)
			objects[string(id)] = r
			return json.Unmarshal(body, &r)
		})
	})

	return objects, err
}
