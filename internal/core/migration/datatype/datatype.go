// Package datatype parses and normalizes column datatype expressions such as
// "varchar(255)", "numeric(10, 2)" or "double precision".
package datatype

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// typeLexer tokenizes datatype expressions.
var typeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// expression is the raw parse tree of a datatype.
type expression struct {
	Words []string `parser:"@Ident+"`
	Args  []int    `parser:"( '(' @Int ( ',' @Int )* ')' )?"`
}

var parser = participle.MustBuild[expression](
	participle.Lexer(typeLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Ident"),
)

// aliases maps spellings accepted by the databases onto one canonical name.
var aliases = map[string]string{
	"int":                         "integer",
	"int4":                        "integer",
	"int8":                        "bigint",
	"int2":                        "smallint",
	"bool":                        "boolean",
	"float4":                      "real",
	"float8":                      "double precision",
	"double":                      "double precision",
	"decimal":                     "numeric",
	"character varying":           "varchar",
	"character":                   "char",
	"timestamp without time zone": "timestamp",
	"timestamp with time zone":    "timestamptz",
	"time without time zone":      "time",
	"time with time zone":         "timetz",
}

// DataType is a parsed datatype: a (possibly multi-word) name and optional
// integer parameters.
type DataType struct {
	Name string
	Args []int
}

// String renders the datatype in canonical form, e.g. "numeric(10,2)".
func (d DataType) String() string {
	if len(d.Args) == 0 {
		return d.Name
	}
	args := make([]string, len(d.Args))
	for i, a := range d.Args {
		args[i] = strconv.Itoa(a)
	}
	return fmt.Sprintf("%s(%s)", d.Name, strings.Join(args, ","))
}

// Parse parses a datatype expression. Names are lowercased and aliases are
// resolved to their canonical spelling.
func Parse(s string) (DataType, error) {
	expr, err := parser.ParseString("", s)
	if err != nil {
		return DataType{}, fmt.Errorf("invalid datatype %q: %w", s, err)
	}

	name := strings.ToLower(strings.Join(expr.Words, " "))
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	return DataType{Name: name, Args: expr.Args}, nil
}

// Normalize returns the canonical spelling of s. Expressions that cannot be
// parsed are returned lowercased and trimmed so that validation can report
// them later.
func Normalize(s string) string {
	dt, err := Parse(s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return dt.String()
}
