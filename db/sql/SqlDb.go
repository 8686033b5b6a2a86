package sql

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/go-gorp/gorp/v3"
	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq" // postgres driver
	log "github.com/sirupsen/logrus"
	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/util"
	_ "modernc.org/sqlite" // sqlite driver
)

type SqlDb struct {
	sql     *gorp.DbMap
	dialect util.DbDriver
	config  util.DbConfig
}

func NewSqlDb(dialect util.DbDriver, config util.DbConfig) *SqlDb {
	return &SqlDb{
		dialect: dialect,
		config:  config,
	}
}

func (d *SqlDb) driverName() string {
	switch d.dialect {
	case util.DbDriverSQLite:
		return "sqlite"
	case util.DbDriverPostgres:
		return "postgres"
	default:
		return "mysql"
	}
}

func (d *SqlDb) gorpDialect() gorp.Dialect {
	switch d.dialect {
	case util.DbDriverSQLite:
		return gorp.SqliteDialect{}
	case util.DbDriverPostgres:
		return gorp.PostgresDialect{}
	default:
		return gorp.MySQLDialect{Engine: "InnoDB", Encoding: "UTF8MB4"}
	}
}

// dataSourceName renders the driver specific connection string.
func (d *SqlDb) dataSourceName() (string, error) {
	switch d.dialect {
	case util.DbDriverSQLite:
		return d.config.Hostname + encodeOptions("?", d.config.Options), nil

	case util.DbDriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			Host:   d.config.Hostname,
			Path:   "/" + d.config.DbName,
		}
		if d.config.Username != "" {
			u.User = url.UserPassword(d.config.Username, d.config.Password)
		}
		return u.String() + encodeOptions("?", d.config.Options), nil

	case util.DbDriverMySQL:
		cfg := mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = d.config.Hostname
		cfg.User = d.config.Username
		cfg.Passwd = d.config.Password
		cfg.DBName = d.config.DbName
		cfg.ParseTime = true
		cfg.Params = d.config.Options
		return cfg.FormatDSN(), nil

	default:
		return "", fmt.Errorf("unsupported sql dialect %q", d.dialect)
	}
}

func encodeOptions(prefix string, options map[string]string) string {
	if len(options) == 0 {
		return ""
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		values.Add(k, options[k])
	}

	return prefix + values.Encode()
}

func (d *SqlDb) Connect(token string) error {
	dsn, err := d.dataSourceName()
	if err != nil {
		return err
	}

	sqlDb, err := sql.Open(d.driverName(), dsn)
	if err != nil {
		return err
	}

	if d.dialect == util.DbDriverSQLite {
		// sqlite serializes writers; a single connection also keeps :memory: databases alive.
		sqlDb.SetMaxOpenConns(1)
	}

	if err = sqlDb.Ping(); err != nil {
		_ = sqlDb.Close()
		return err
	}

	d.sql = &gorp.DbMap{Db: sqlDb, Dialect: d.gorpDialect()}
	d.registerTables()

	log.WithFields(log.Fields{
		"dialect": d.dialect,
		"token":   token,
	}).Debug("database connection opened")

	return nil
}

func (d *SqlDb) Close(token string) {
	if d.sql == nil {
		return
	}

	if err := d.sql.Db.Close(); err != nil {
		log.WithError(err).WithField("token", token).Error("cannot close database connection")
	}
}

func (d *SqlDb) registerTables() {
	d.sql.AddTableWithName(db.Migration{}, "migrations").SetKeys(false, "Version")

	users := d.sql.AddTableWithName(db.User{}, db.UserProps.TableName).SetKeys(true, "ID")
	users.ColMap("Username").SetUnique(true).SetMaxSize(255).SetNotNull(true)
	users.ColMap("Email").SetUnique(true).SetMaxSize(255).SetNotNull(true)

	d.sql.AddTableWithName(db.Project{}, db.ProjectProps.TableName).SetKeys(true, "ID")

	d.sql.AddTableWithName(db.ProjectUser{}, db.ProjectUserProps.TableName).
		SetKeys(true, "ID").
		SetUniqueTogether("project_id", "user_id")

	tasks := d.sql.AddTableWithName(db.Task{}, db.TaskProps.TableName).SetKeys(true, "ID")
	tasks.ColMap("Description").SetMaxSize(4000)
	tasks.AddIndex("idx_tasks_project", "Btree", []string{"project_id"})

	comments := d.sql.AddTableWithName(db.Comment{}, db.CommentProps.TableName).SetKeys(true, "ID")
	comments.ColMap("Content").SetMaxSize(4000)
	comments.AddIndex("idx_task_comments_task", "Btree", []string{"task_id"})
	comments.AddIndex("idx_task_comments_parent", "Btree", []string{"parent_id"})

	invitations := d.sql.AddTableWithName(db.ProjectInvitation{}, db.ProjectInvitationProps.TableName).SetKeys(true, "ID")
	invitations.ColMap("Token").SetUnique(true).SetMaxSize(64).SetNotNull(true)
	invitations.AddIndex("idx_project_invitations_project", "Btree", []string{"project_id"})
}

func (d *SqlDb) builder() squirrel.StatementBuilderType {
	if d.dialect == util.DbDriverPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

func (d *SqlDb) selectOne(holder any, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}

	err = d.sql.SelectOne(holder, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return db.ErrNotFound
	}

	return err
}

func (d *SqlDb) selectAll(holder any, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}

	_, err = d.sql.Select(holder, query, args...)
	return err
}

func (d *SqlDb) selectInt(q squirrel.Sqlizer) (int, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}

	n, err := d.sql.SelectInt(query, args...)
	return int(n), err
}

func (d *SqlDb) exec(q squirrel.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	return d.sql.Exec(query, args...)
}

func (d *SqlDb) deleteObject(props db.ObjectProps, where squirrel.Eq) error {
	res, err := d.exec(d.builder().Delete(props.TableName).Where(where))
	return validateMutationResult(res, err)
}

func validateMutationResult(res sql.Result, err error) error {
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return db.ErrNotFound
	}

	return nil
}

func validateUpdateCount(count int64, err error) error {
	if err != nil {
		return err
	}

	if count == 0 {
		return db.ErrNotFound
	}

	return nil
}

// isUniqueViolation recognizes duplicate key errors across supported drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
