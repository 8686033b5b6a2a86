package sql

import (
	"github.com/Masterminds/squirrel"
	"github.com/taskflow/taskflow/db"
)

func (d *SqlDb) CreateUser(user db.User) (db.User, error) {
	if err := user.Validate(); err != nil {
		return db.User{}, err
	}

	user.Email = db.NormalizeEmail(user.Email)

	err := d.sql.Insert(&user)
	if isUniqueViolation(err) {
		return db.User{}, &db.ValidationError{Message: "user with this username or email already exists"}
	}

	return user, err
}

func (d *SqlDb) GetUser(userID int) (user db.User, err error) {
	err = d.selectOne(&user, d.builder().
		Select("*").
		From(db.UserProps.TableName).
		Where(squirrel.Eq{"id": userID}))
	return
}

func (d *SqlDb) GetUserByEmail(email string) (user db.User, err error) {
	err = d.selectOne(&user, d.builder().
		Select("*").
		From(db.UserProps.TableName).
		Where(squirrel.Eq{"email": db.NormalizeEmail(email)}))
	return
}

func (d *SqlDb) GetUsers() (users []db.User, err error) {
	users = make([]db.User, 0)
	err = d.selectAll(&users, d.builder().
		Select("*").
		From(db.UserProps.TableName).
		OrderBy("id"))
	return
}
