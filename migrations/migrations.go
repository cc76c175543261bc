// Package migrations embeds the SQL schema for the company store and run history.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed postgres/*.sql clickhouse/*.sql
var files embed.FS

// Postgres returns the PostgreSQL migrations in apply order
func Postgres() ([]string, error) {
	return read("postgres")
}

// ClickHouse returns the ClickHouse migrations in apply order
func ClickHouse() ([]string, error) {
	return read("clickhouse")
}

func read(dir string) ([]string, error) {
	names, err := fs.Glob(files, dir+"/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	stmts := make([]string, 0, len(names))
	for _, name := range names {
		data, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, string(data))
	}
	return stmts, nil
}
