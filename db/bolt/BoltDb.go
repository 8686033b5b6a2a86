package bolt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/taskflow/taskflow/db"
	"go.etcd.io/bbolt"
)

type BoltDb struct {
	Filename string
	db       *bbolt.DB
	mu       sync.Mutex
	// connections counts Connect calls not yet matched by Close.
	connections int
}

func NewBoltDb(filename string) *BoltDb {
	return &BoltDb{Filename: filename}
}

type objectID interface {
	ToBytes() []byte
}

type intObjectID int
type strObjectID string

func (d intObjectID) ToBytes() []byte {
	return []byte(fmt.Sprintf("%010d", d))
}

func (d strObjectID) ToBytes() []byte {
	return []byte(d)
}

func makeBucketID(props db.ObjectProps) []byte {
	return []byte(props.TableName)
}

func (d *BoltDb) Connect(token string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		var err error
		d.db, err = bbolt.Open(d.Filename, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
		if err != nil {
			return err
		}
	}

	d.connections++

	log.WithFields(log.Fields{
		"file":  d.Filename,
		"token": token,
	}).Debug("bolt database opened")

	return nil
}

func (d *BoltDb) Close(token string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return
	}

	d.connections--
	if d.connections > 0 {
		return
	}

	if err := d.db.Close(); err != nil {
		log.WithError(err).WithField("token", token).Error("cannot close bolt database")
	}
	d.db = nil
}

func getObjectTx[T any](tx *bbolt.Tx, props db.ObjectProps, id objectID) (obj T, err error) {
	b := tx.Bucket(makeBucketID(props))
	if b == nil {
		err = db.ErrNotFound
		return
	}

	str := b.Get(id.ToBytes())
	if str == nil {
		err = db.ErrNotFound
		return
	}

	err = json.Unmarshal(str, &obj)
	return
}

func getObject[T any](d *BoltDb, props db.ObjectProps, id objectID) (obj T, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		obj, err = getObjectTx[T](tx, props, id)
		return err
	})
	return
}

func getObjectsTx[T any](tx *bbolt.Tx, props db.ObjectProps, filter func(T) bool) ([]T, error) {
	objects := make([]T, 0)

	b := tx.Bucket(makeBucketID(props))
	if b == nil {
		return objects, nil
	}

	err := b.ForEach(func(_, v []byte) error {
		var obj T
		if err := json.Unmarshal(v, &obj); err != nil {
			return err
		}
		if filter == nil || filter(obj) {
			objects = append(objects, obj)
		}
		return nil
	})

	return objects, err
}

// getObjects returns objects of the bucket accepted by filter, in key order.
func getObjects[T any](d *BoltDb, props db.ObjectProps, filter func(T) bool) (objects []T, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		objects, err = getObjectsTx(tx, props, filter)
		return err
	})
	return
}

func putObjectTx(tx *bbolt.Tx, props db.ObjectProps, id objectID, obj any) error {
	b, err := tx.CreateBucketIfNotExists(makeBucketID(props))
	if err != nil {
		return err
	}

	str, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return b.Put(id.ToBytes(), str)
}

// createObjectTx allocates the next sequence id, passes it to build and stores the result.
func createObjectTx(tx *bbolt.Tx, props db.ObjectProps, build func(id int) any) (int, error) {
	b, err := tx.CreateBucketIfNotExists(makeBucketID(props))
	if err != nil {
		return 0, err
	}

	seq, err := b.NextSequence()
	if err != nil {
		return 0, err
	}

	id := int(seq)
	return id, putObjectTx(tx, props, intObjectID(id), build(id))
}

func updateObjectTx(tx *bbolt.Tx, props db.ObjectProps, id objectID, obj any) error {
	b := tx.Bucket(makeBucketID(props))
	if b == nil || b.Get(id.ToBytes()) == nil {
		return db.ErrNotFound
	}

	return putObjectTx(tx, props, id, obj)
}

func deleteObjectTx(tx *bbolt.Tx, props db.ObjectProps, id objectID) error {
	b := tx.Bucket(makeBucketID(props))
	if b == nil || b.Get(id.ToBytes()) == nil {
		return db.ErrNotFound
	}

	return b.Delete(id.ToBytes())
}
