// Package config loads and validates kiln configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// FileName is the base name searched for when no config file is given.
const FileName = "kiln"

// DefaultMigrationsDir is used when migrationsDir is not configured.
const DefaultMigrationsDir = "migrations"

// ErrConfigNotFound is returned when no config file exists in the search path.
var ErrConfigNotFound = errors.New("config file not found")

// Config holds the application configuration.
type Config struct {
	Database      DatabaseConfig
	MigrationsDir string
	Tables        []TableConfig
	Indexes       []IndexConfig

	// File is the config file that was read.
	File string
}

// DatabaseConfig represents database configuration.
type DatabaseConfig struct {
	Dialect          domain.Dialect
	ConnectionString string
	MaxConnections   int
	MaxIdleTime      int
	ConnectTimeout   int
}

// TableConfig declares one table.
type TableConfig struct {
	TableName string        `yaml:"tableName" json:"tableName"`
	Columns   ColumnsConfig `yaml:"columns" json:"columns"`
}

// ColumnConfig declares one column.
type ColumnConfig struct {
	Type       string `yaml:"type" json:"type"`
	NotNull    bool   `yaml:"notNull,omitempty" json:"notNull,omitempty"`
	PrimaryKey bool   `yaml:"primaryKey,omitempty" json:"primaryKey,omitempty"`
	Unique     bool   `yaml:"unique,omitempty" json:"unique,omitempty"`
	DefaultSQL string `yaml:"defaultSql,omitempty" json:"defaultSql,omitempty"`
	CheckSQL   string `yaml:"checkSql,omitempty" json:"checkSql,omitempty"`
}

// IndexConfig declares one index. Indexes are validated but not migrated.
type IndexConfig struct {
	Name    string   `yaml:"-"`
	Table   string   `yaml:"table"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique,omitempty"`
}

// Options controls where configuration is read from.
type Options struct {
	// File is an explicit config file. When empty the search paths are used.
	File string
	// SearchPaths overrides the default search paths.
	SearchPaths []string
	// EnvDir is the directory holding .env and .env.local.
	EnvDir string
}

// Loader reads configuration through a filesystem abstraction.
type Loader struct {
	fs afero.Fs
}

// NewLoader creates a loader on fs. A nil fs means the OS filesystem.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{fs: fs}
}

// DefaultSearchPaths returns the working directory and ~/.config/kiln.
func DefaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := homedir.Dir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "kiln"))
	}
	return paths
}

// Load reads .env files, the config file and KILN_* environment overrides,
// then validates the result.
func (l *Loader) Load(opts Options) (*Config, error) {
	envDir := opts.EnvDir
	if envDir == "" {
		envDir = "."
	}
	if err := loadDotenv(l.fs, envDir); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(l.fs)
	v.SetEnvPrefix("KILN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("migrationsDir", DefaultMigrationsDir)
	v.SetDefault("database.maxConnections", 10)
	v.SetDefault("database.maxIdleTime", 300)
	v.SetDefault("database.connectTimeout", 10)

	if opts.File != "" {
		file, err := homedir.Expand(opts.File)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		paths := opts.SearchPaths
		if len(paths) == 0 {
			paths = DefaultSearchPaths()
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil, fmt.Errorf("%w (run `kiln init` to create one)", ErrConfigNotFound)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		MigrationsDir: v.GetString("migrationsDir"),
		File:          v.ConfigFileUsed(),
		Database: DatabaseConfig{
			ConnectionString: expandRefs(v.GetString("database.connectionString")),
			MaxConnections:   v.GetInt("database.maxConnections"),
			MaxIdleTime:      v.GetInt("database.maxIdleTime"),
			ConnectTimeout:   v.GetInt("database.connectTimeout"),
		},
	}

	dialect, err := domain.ParseDialect(v.GetString("database.dialect"))
	if err != nil {
		return nil, fmt.Errorf("database.dialect: %w", err)
	}
	cfg.Database.Dialect = dialect

	// viper lowercases keys, so declarations are decoded from the raw file
	// where column order survives.
	data, err := afero.ReadFile(l.fs, cfg.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cfg.File, err)
	}
	cfg.Tables = doc.Tables
	cfg.Indexes = doc.indexes()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Ideal returns the declared schema.
func (c *Config) Ideal() domain.Schema {
	schema := domain.Schema{Tables: make([]domain.Table, 0, len(c.Tables))}
	for _, t := range c.Tables {
		table := domain.Table{Name: t.TableName, Columns: make(domain.Columns, 0, len(t.Columns))}
		for _, col := range t.Columns {
			table.Columns = append(table.Columns, domain.Column{
				Name: col.Name,
				ColumnAttributes: domain.ColumnAttributes{
					Type:       col.Type,
					NotNull:    col.NotNull,
					PrimaryKey: col.PrimaryKey,
					Unique:     col.Unique,
					DefaultSQL: col.DefaultSQL,
					CheckSQL:   col.CheckSQL,
				},
			})
		}
		schema.Tables = append(schema.Tables, table)
	}
	return schema
}

// loadDotenv applies .env without overriding the environment, then
// .env.local overriding it.
func loadDotenv(fs afero.Fs, dir string) error {
	files := []struct {
		name     string
		override bool
	}{
		{".env", false},
		{".env.local", true},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		vars, err := godotenv.Unmarshal(string(data))
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		for k, v := range vars {
			if _, set := os.LookupEnv(k); set && !f.override {
				continue
			}
			if err := os.Setenv(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandRefs replaces ${VAR} references with their environment value. A bare
// $ is kept, so passwords such as "pa$word" survive.
func expandRefs(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(envRef.FindStringSubmatch(ref)[1])
	})
}
