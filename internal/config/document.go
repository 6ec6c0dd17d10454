package config

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// document is the on-disk layout. JSON config files decode through the same
// path since YAML is a superset of JSON.
type document struct {
	Database      *databaseDocument        `yaml:"database,omitempty"`
	MigrationsDir string                   `yaml:"migrationsDir,omitempty"`
	Tables        []TableConfig            `yaml:"tables"`
	Indexes       []map[string]IndexConfig `yaml:"indexes,omitempty"`
}

type databaseDocument struct {
	Dialect          string `yaml:"dialect"`
	ConnectionString string `yaml:"connectionString"`
}

func (d document) indexes() []IndexConfig {
	var out []IndexConfig
	for _, entry := range d.Indexes {
		names := make([]string, 0, len(entry))
		for name := range entry {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			idx := entry[name]
			idx.Name = name
			out = append(out, idx)
		}
	}
	return out
}

// NamedColumn is a column declaration with its name.
type NamedColumn struct {
	Name string
	ColumnConfig
}

// ColumnsConfig is a column mapping that keeps declaration order.
type ColumnsConfig []NamedColumn

// UnmarshalYAML decodes a mapping of column name to declaration.
func (c *ColumnsConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: columns must be a mapping of column name to declaration", node.Line)
	}

	seen := make(map[string]bool, len(node.Content)/2)
	cols := make(ColumnsConfig, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if seen[key.Value] {
			return fmt.Errorf("line %d: duplicate column %q", key.Line, key.Value)
		}
		seen[key.Value] = true

		var col ColumnConfig
		if err := value.Decode(&col); err != nil {
			return fmt.Errorf("column %q: %w", key.Value, err)
		}
		cols = append(cols, NamedColumn{Name: key.Value, ColumnConfig: col})
	}
	*c = cols
	return nil
}

// MarshalYAML encodes the columns as an ordered mapping.
func (c ColumnsConfig) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, col := range c {
		value := &yaml.Node{}
		if err := value.Encode(col.ColumnConfig); err != nil {
			return nil, err
		}
		value.Style = yaml.FlowStyle
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: col.Name},
			value,
		)
	}
	return node, nil
}

// Marshal renders cfg as a kiln.yaml document. The connection string is
// written as given, so a ${VAR} reference stays unexpanded.
func Marshal(cfg *Config) ([]byte, error) {
	doc := document{
		Database: &databaseDocument{
			Dialect:          string(cfg.Database.Dialect),
			ConnectionString: cfg.Database.ConnectionString,
		},
		Tables: cfg.Tables,
	}
	if cfg.MigrationsDir != "" && cfg.MigrationsDir != DefaultMigrationsDir {
		doc.MigrationsDir = cfg.MigrationsDir
	}
	for _, idx := range cfg.Indexes {
		doc.Indexes = append(doc.Indexes, map[string]IndexConfig{idx.Name: idx})
	}
	if doc.Tables == nil {
		doc.Tables = []TableConfig{}
	}
	return yaml.Marshal(doc)
}
