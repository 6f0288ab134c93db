package entries

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Dialect captures the differences between the supported SQL engines.
type Dialect struct {
	// Name is the database/sql driver name.
	Name string
	// Goose is the goose dialect used for migrations.
	Goose string
	// Dir is the migrations directory inside the embedded FS.
	Dir string

	numbered  bool
	txOptions *sql.TxOptions
}

var (
	Postgres = Dialect{
		Name:      "pgx",
		Goose:     "pgx",
		Dir:       "postgres",
		numbered:  true,
		txOptions: &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true},
	}
	SQLite = Dialect{
		Name:  "sqlite",
		Goose: "sqlite3",
		Dir:   "sqlite",
	}
)

// DialectFor returns the dialect of a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case Postgres.Name, "postgres":
		return Postgres, nil
	case SQLite.Name, "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
}

// Placeholder returns the bind parameter for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// placeholders returns "p1, p2, ..., pn".
func (d Dialect) placeholders(n int) string {
	s := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			s += ", "
		}
		s += d.Placeholder(i)
	}
	return s
}
