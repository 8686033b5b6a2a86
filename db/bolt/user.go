package bolt

import (
	"github.com/taskflow/taskflow/db"
	"go.etcd.io/bbolt"
)

func (d *BoltDb) CreateUser(user db.User) (db.User, error) {
	if err := user.Validate(); err != nil {
		return db.User{}, err
	}

	user.Email = db.NormalizeEmail(user.Email)

	err := d.db.Update(func(tx *bbolt.Tx) error {
		existing, err := getObjectsTx(tx, db.UserProps, func(u db.User) bool {
			return u.Username == user.Username || u.Email == user.Email
		})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return &db.ValidationError{Message: "user with this username or email already exists"}
		}

		_, err = createObjectTx(tx, db.UserProps, func(id int) any {
			user.ID = id
			return user
		})
		return err
	})

	if err != nil {
		return db.User{}, err
	}

	return user, nil
}

func (d *BoltDb) GetUser(userID int) (db.User, error) {
	return getObject[db.User](d, db.UserProps, intObjectID(userID))
}

func (d *BoltDb) GetUserByEmail(email string) (db.User, error) {
	email = db.NormalizeEmail(email)

	users, err := getObjects(d, db.UserProps, func(u db.User) bool {
		return u.Email == email
	})
	if err != nil {
		return db.User{}, err
	}

	if len(users) == 0 {
		return db.User{}, db.ErrNotFound
	}

	return users[0], nil
}

func (d *BoltDb) GetUsers() ([]db.User, error) {
	return getObjects[db.User](d, db.UserProps, nil)
}
