package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/glebarez/sqlite"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "pgx"
)

//go:embed migrations
var migrationsFS embed.FS

type Config struct {
	Driver string
	DSN    string
}

/*
Connect opens the database for the configured driver. Unknown drivers are
rejected so a typo in configuration fails at startup.
*/
func Connect(config Config) (*sqlz.DB, error) {
	var (
		err error
		db  *sqlz.DB
	)

	switch config.Driver {
	case DriverSqlite:
		binds.Register(DriverSqlite, binds.BindByDriver("sqlite3"))

	case DriverPostgres:

	default:
		return nil, fmt.Errorf("unsupported database driver '%s'", config.Driver)
	}

	if db, err = sqlz.Connect(config.Driver, config.DSN); err != nil {
		return nil, fmt.Errorf("error connecting to %s database: %w", config.Driver, err)
	}

	return db, nil
}

/*
Migrate applies every pending migration for the driver's dialect.
*/
func Migrate(config Config) error {
	var (
		err error
		db  *sql.DB
	)

	dialect, dir := dialectFor(config.Driver)

	if db, err = sql.Open(config.Driver, config.DSN); err != nil {
		return fmt.Errorf("error opening database for migrations: %w", err)
	}

	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{})

	if err = goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("error setting migration dialect %s: %w", dialect, err)
	}

	if err = goose.Up(db, dir); err != nil {
		return fmt.Errorf("error running migrations in %s: %w", dir, err)
	}

	return nil
}

/*
Builder returns a squirrel statement builder using the placeholder style the
driver expects.
*/
func Builder(driver string) squirrel.StatementBuilderType {
	if driver == DriverPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}

	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

func dialectFor(driver string) (string, string) {
	if driver == DriverPostgres {
		return "postgres", path.Join("migrations", "postgres")
	}

	return "sqlite3", path.Join("migrations", "sqlite")
}

type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...any) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
