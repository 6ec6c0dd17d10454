package sqlgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/satishbabariya/kiln/internal/core/migration/datatype"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// arity bounds the number of parameters a datatype accepts.
type arity struct{ min, max int }

var (
	noArgs       = arity{0, 0}
	optionalLen  = arity{0, 1}
	requiredLen  = arity{1, 1}
	precisionArg = arity{0, 2}
)

// vocabulary is the closed set of datatypes a dialect accepts.
type vocabulary map[string]arity

// resolve validates raw against the vocabulary and returns its canonical form.
func (v vocabulary) resolve(dialect domain.Dialect, table, column, raw string) (string, error) {
	fail := func(reason string) error {
		return &UnsupportedTypeError{Dialect: dialect, Table: table, Column: column, Type: raw, Reason: reason}
	}

	dt, err := datatype.Parse(raw)
	if err != nil {
		return "", fail("cannot parse datatype")
	}
	a, ok := v[dt.Name]
	if !ok {
		return "", fail("supported types are " + strings.Join(SupportedTypes(dialect), ", "))
	}
	if n := len(dt.Args); n < a.min || n > a.max {
		return "", fail(fmt.Sprintf("%s takes %d to %d parameters, got %d", dt.Name, a.min, a.max, n))
	}
	return dt.String(), nil
}

var postgresTypes = vocabulary{
	"smallint":         noArgs,
	"integer":          noArgs,
	"bigint":           noArgs,
	"real":             noArgs,
	"double precision": noArgs,
	"numeric":          precisionArg,
	"boolean":          noArgs,
	"char":             optionalLen,
	"varchar":          optionalLen,
	"text":             noArgs,
	"uuid":             noArgs,
	"date":             noArgs,
	"time":             optionalLen,
	"timetz":           optionalLen,
	"timestamp":        optionalLen,
	"timestamptz":      optionalLen,
	"json":             noArgs,
	"jsonb":            noArgs,
	"bytea":            noArgs,
}

var mysqlTypes = vocabulary{
	"smallint":         noArgs,
	"integer":          noArgs,
	"bigint":           noArgs,
	"double precision": noArgs,
	"numeric":          precisionArg,
	"boolean":          noArgs,
	"char":             optionalLen,
	"varchar":          requiredLen,
	"text":             noArgs,
	"date":             noArgs,
	"time":             optionalLen,
	"datetime":         optionalLen,
	"timestamp":        optionalLen,
	"json":             noArgs,
	"blob":             noArgs,
}

var sqliteTypes = vocabulary{
	"smallint":         noArgs,
	"integer":          noArgs,
	"bigint":           noArgs,
	"real":             noArgs,
	"double precision": noArgs,
	"numeric":          precisionArg,
	"boolean":          noArgs,
	"char":             optionalLen,
	"varchar":          optionalLen,
	"text":             noArgs,
	"uuid":             noArgs,
	"date":             noArgs,
	"time":             noArgs,
	"datetime":         noArgs,
	"timestamp":        noArgs,
	"json":             noArgs,
	"blob":             noArgs,
}

func (v vocabulary) names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SupportedTypes lists the datatype names accepted by dialect, sorted.
func SupportedTypes(dialect domain.Dialect) []string {
	switch dialect {
	case domain.Postgres, domain.CockroachDB:
		return postgresTypes.names()
	case domain.MySQL:
		return mysqlTypes.names()
	case domain.SQLite:
		return sqliteTypes.names()
	}
	return nil
}
