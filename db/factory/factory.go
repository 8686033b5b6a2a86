package factory

import (
	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/db/bolt"
	"github.com/taskflow/taskflow/db/sql"
	"github.com/taskflow/taskflow/util"
)

// CreateStore returns an unconnected store for the configured dialect.
func CreateStore(conf *util.ConfigType) (db.Store, error) {
	dbConfig, err := conf.GetDBConfig()
	if err != nil {
		return nil, err
	}

	switch conf.Dialect {
	case util.DbDriverBolt:
		return bolt.NewBoltDb(dbConfig.Hostname), nil
	default:
		return sql.NewSqlDb(conf.Dialect, dbConfig), nil
	}
}
