package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// RenderDiff describes each change of diff on its own line.
func RenderDiff(diff domain.SchemaDiff) string {
	var b strings.Builder
	for _, line := range diffLines(diff) {
		b.WriteString(line.text)
		b.WriteByte('\n')
	}
	return b.String()
}

// PrintDiff prints diff with added, removed and changed entries colored.
func PrintDiff(diff domain.SchemaDiff) {
	for _, line := range diffLines(diff) {
		if line.color == nil {
			fmt.Fprintln(out, line.text)
			continue
		}
		line.color.Fprintln(out, line.text)
	}
}

var (
	addColor    = color.New(color.FgGreen)
	removeColor = color.New(color.FgRed)
	changeColor = color.New(color.FgYellow)
)

type diffLine struct {
	text  string
	color *color.Color
}

func diffLines(diff domain.SchemaDiff) []diffLine {
	var lines []diffLine
	add := func(c *color.Color, format string, args ...any) {
		lines = append(lines, diffLine{text: fmt.Sprintf(format, args...), color: c})
	}

	for _, t := range diff.AddedTables {
		add(addColor, "-- create_table: %s", t.Table)
		for _, col := range t.Columns {
			add(nil, "   -> column: %s (%s)", col.Name, attributes(col.ColumnAttributes))
		}
	}
	for _, name := range diff.RemovedTables {
		add(removeColor, "-- remove_table: %s", name)
	}
	for _, t := range diff.ChangedTables {
		for _, col := range t.AddedColumns {
			add(addColor, "-- add_column: %s.%s", t.Table, col.Column)
			add(nil, "   -> to: %s", attributes(col.Attributes))
		}
		for _, col := range t.RemovedColumns {
			add(removeColor, "-- remove_column: %s.%s", t.Table, col.Column)
		}
		for _, col := range t.ChangedColumns {
			add(changeColor, "-- change_column: %s.%s", t.Table, col.Column)
			add(nil, "   -> from: %s", attributes(col.Before))
			add(nil, "   -> to:   %s", attributes(col.After))
		}
	}
	return lines
}

func attributes(a domain.ColumnAttributes) string {
	data, err := json.Marshal(a)
	if err != nil {
		return a.Type
	}
	return string(data)
}
