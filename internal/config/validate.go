package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is matched by every ValidationError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError lists every problem found in a config file.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(e.Problems, "; "))
}

// Is reports whether target is ErrInvalidConfig.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidConfig }

// Validate checks the declared schema for structural problems.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Database.ConnectionString == "" {
		add("database.connectionString is required")
	}
	if c.MigrationsDir == "" {
		add("migrationsDir must not be empty")
	}

	tables := make(map[string]map[string]bool, len(c.Tables))
	for i, t := range c.Tables {
		if t.TableName == "" {
			add("tables[%d]: tableName is required", i)
			continue
		}
		if _, dup := tables[t.TableName]; dup {
			add("table %q is declared more than once", t.TableName)
			continue
		}
		if len(t.Columns) == 0 {
			add("table %q has no columns", t.TableName)
		}

		cols := make(map[string]bool, len(t.Columns))
		for _, col := range t.Columns {
			if col.Name == "" {
				add("table %q: column name must not be empty", t.TableName)
				continue
			}
			if strings.TrimSpace(col.Type) == "" {
				add("column %s.%s has no type", t.TableName, col.Name)
			}
			cols[col.Name] = true
		}
		tables[t.TableName] = cols
	}

	for _, idx := range c.Indexes {
		cols, ok := tables[idx.Table]
		if !ok {
			add("index %q references unknown table %q", idx.Name, idx.Table)
			continue
		}
		if len(idx.Columns) == 0 {
			add("index %q has no columns", idx.Name)
		}
		for _, col := range idx.Columns {
			if !cols[col] {
				add("index %q references unknown column %s.%s", idx.Name, idx.Table, col)
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
