package dbexport

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dialect holds everything that differs between the supported database engines.
type Dialect struct {
	Name        string
	Driver      string
	Extensions  []string
	TablesQuery string
	// FieldsQuery takes the table name as its only parameter and returns
	// column name, data type and nullability (YES/NO).
	FieldsQuery string
	dsn         func(path string) string
	// columnExpr renders one select list entry for a catalog column.
	columnExpr  func(d Dialect, c Column) string
}

// DSN returns a read-only connection string for the database file at path.
func (d Dialect) DSN(path string) string {
	return d.dsn(path)
}

// QuoteIdent quotes a table or column name; embedded quotes are doubled.
func (d Dialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// SelectQuery builds the unfiltered full-table scan for table. Every column
// is listed explicitly, in catalog order, under its own name.
func (d Dialect) SelectQuery(table string, cols []Column) string {
	exprs := make([]string, len(cols))
	for i, c := range cols {
		if d.columnExpr != nil {
			exprs[i] = d.columnExpr(d, c)
		} else {
			exprs[i] = d.QuoteIdent(c.Name)
		}
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), d.QuoteIdent(table))
}

// sqliteColumn wraps the column in a unary plus. The expression has no
// declared type, so drivers hand back the stored value as is instead of
// converting DATE, DATETIME or BOOLEAN columns.
func sqliteColumn(d Dialect, c Column) string {
	name := d.QuoteIdent(c.Name)
	return "+" + name + " AS " + name
}

// duckTextTypes are read as their VARCHAR rendering; the driver returns them
// as raw bytes or structs with no JSON form.
var duckTextTypes = []string{"UUID", "INTERVAL", "BIT", "TIME"}

func duckColumn(d Dialect, c Column) string {
	name := d.QuoteIdent(c.Name)
	typ := strings.ToUpper(strings.TrimSpace(c.Type))
	base, list := strings.CutSuffix(typ, "[]")
	for _, t := range duckTextTypes {
		if base == t || strings.HasPrefix(base, t+" ") {
			if list {
				return "CAST(" + name + " AS VARCHAR[]) AS " + name
			}
			return "CAST(" + name + " AS VARCHAR) AS " + name
		}
	}
	return name
}

const (
	sqliteTablesQuery = `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`
	sqliteFieldsQuery = `SELECT name, type, CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END FROM pragma_table_info(?) ORDER BY cid`
	duckTablesQuery   = `SELECT table_name FROM information_schema.tables WHERE table_type = 'BASE TABLE' ORDER BY table_name`
	duckFieldsQuery   = `SELECT column_name, data_type, is_nullable FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position`
)

var sqliteExtensions = []string{".sqlite3", ".sqlite", ".db"}

// sqliteURI escapes the characters that would end the path part of a SQLite URI filename.
func sqliteURI(path string) string {
	r := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")
	return "file:" + r.Replace(filepath.ToSlash(path)) + "?mode=ro"
}

// SQLite3 uses github.com/mattn/go-sqlite3.
var SQLite3 = Dialect{
	Name:        "sqlite3",
	Driver:      "sqlite3",
	Extensions:  sqliteExtensions,
	TablesQuery: sqliteTablesQuery,
	FieldsQuery: sqliteFieldsQuery,
	dsn:         sqliteURI,
	columnExpr:  sqliteColumn,
}

// SQLite uses the pure Go modernc.org/sqlite driver.
var SQLite = Dialect{
	Name:        "sqlite",
	Driver:      "sqlite",
	Extensions:  sqliteExtensions,
	TablesQuery: sqliteTablesQuery,
	FieldsQuery: sqliteFieldsQuery,
	dsn:         sqliteURI,
	columnExpr:  sqliteColumn,
}

// DuckDB uses github.com/marcboeker/go-duckdb.
var DuckDB = Dialect{
	Name:        "duckdb",
	Driver:      "duckdb",
	Extensions:  []string{".duckdb"},
	TablesQuery: duckTablesQuery,
	FieldsQuery: duckFieldsQuery,
	dsn: func(path string) string {
		return path + "?access_mode=read_only"
	},
	columnExpr: duckColumn,
}

// Drivers lists the values accepted for the SQLite driver setting.
var Drivers = []string{SQLite3.Name, SQLite.Name}

// DialectFor picks the dialect for a database file. driver selects the SQLite
// implementation and is ignored for DuckDB files.
func DialectFor(path, driver string) (Dialect, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".duckdb" {
		return DuckDB, nil
	}
	switch driver {
	case "", SQLite3.Name:
		return SQLite3, nil
	case SQLite.Name:
		return SQLite, nil
	case DuckDB.Name:
		return DuckDB, nil
	}
	return Dialect{}, fmt.Errorf("unsupported driver: %s", driver)
}

// Source is a database file together with the dialect used to read it.
type Source struct {
	Path    string
	Dialect Dialect
}

// NewSource resolves the dialect for path.
func NewSource(path, driver string) (Source, error) {
	d, err := DialectFor(path, driver)
	if err != nil {
		return Source{}, err
	}
	return Source{Path: path, Dialect: d}, nil
}

// HasExtension reports whether name ends with one of exts, ignoring case.
func HasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
