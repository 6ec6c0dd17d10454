// Package repository persists migration records.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/satishbabariya/kiln/internal/adapters/storage"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// supportedVersions is the range of record format versions this build reads.
var supportedVersions = version.MustConstraints(version.NewConstraint(">= 1, < 2"))

// MigrationRepository stores migration records.
type MigrationRepository interface {
	// Save writes a new record and returns its path.
	Save(ctx context.Context, migration *domain.Migration) (string, error)
	// FindAll returns every record ordered by id.
	FindAll(ctx context.Context) ([]*domain.Migration, error)
	// FindByID returns a single record.
	FindByID(ctx context.Context, id string) (*domain.Migration, error)
	// NextID allocates an id greater than every existing one.
	NextID(ctx context.Context) (string, error)
}

// FileMigrationRepository stores each record as <dir>/<id>.json.
type FileMigrationRepository struct {
	storage       storage.Storage
	migrationsDir string
	now           func() time.Time
}

// Option configures a FileMigrationRepository.
type Option func(*FileMigrationRepository)

// WithClock overrides the clock used to allocate ids.
func WithClock(now func() time.Time) Option {
	return func(r *FileMigrationRepository) { r.now = now }
}

// NewMigrationRepository creates a new migration repository.
func NewMigrationRepository(store storage.Storage, migrationsDir string, opts ...Option) *FileMigrationRepository {
	r := &FileMigrationRepository{
		storage:       store,
		migrationsDir: migrationsDir,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the migrations directory.
func (r *FileMigrationRepository) Dir() string { return r.migrationsDir }

// Path returns the file path of the record with id.
func (r *FileMigrationRepository) Path(id string) string {
	return path.Join(r.migrationsDir, id+".json")
}

// Save writes a new record. Existing records are never overwritten.
func (r *FileMigrationRepository) Save(ctx context.Context, migration *domain.Migration) (string, error) {
	if migration.ID == "" {
		return "", fmt.Errorf("migration has no id")
	}
	if migration.Version == "" {
		migration.Version = domain.RecordVersion
	}

	data, err := json.MarshalIndent(migration, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal migration: %w", err)
	}
	data = append(data, '\n')

	p := r.Path(migration.ID)
	if err := r.storage.Create(ctx, p, data); err != nil {
		if errors.Is(err, storage.ErrExists) {
			return "", fmt.Errorf("%w: %s", domain.ErrMigrationExists, migration.ID)
		}
		return "", fmt.Errorf("failed to write migration file: %w", err)
	}
	return p, nil
}

// FindAll reads every record. A missing directory yields no records; a
// malformed file is an error.
func (r *FileMigrationRepository) FindAll(ctx context.Context) ([]*domain.Migration, error) {
	ids, err := r.ids(ctx)
	if err != nil {
		return nil, err
	}

	migrations := make([]*domain.Migration, 0, len(ids))
	for _, id := range ids {
		m, err := r.load(ctx, id)
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, m)
	}
	return migrations, nil
}

// FindByID retrieves a record by id.
func (r *FileMigrationRepository) FindByID(ctx context.Context, id string) (*domain.Migration, error) {
	exists, err := r.storage.Exists(ctx, r.Path(id))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrMigrationNotFound, id)
	}
	return r.load(ctx, id)
}

// NextID returns the current time in Unix milliseconds, or one past the
// newest record when the clock has not moved beyond it.
func (r *FileMigrationRepository) NextID(ctx context.Context) (string, error) {
	ids, err := r.ids(ctx)
	if err != nil {
		return "", err
	}

	next := r.now().UnixMilli()
	for _, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		if n >= next {
			next = n + 1
		}
	}
	return strconv.FormatInt(next, 10), nil
}

// ids lists record ids in apply order.
func (r *FileMigrationRepository) ids(ctx context.Context) ([]string, error) {
	files, err := r.storage.List(ctx, r.migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var ids []string
	for _, name := range files {
		if id, ok := strings.CutSuffix(name, ".json"); ok && id != "" {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, domain.CompareIDs)
	return ids, nil
}

func (r *FileMigrationRepository) load(ctx context.Context, id string) (*domain.Migration, error) {
	p := r.Path(id)
	data, err := r.storage.Read(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration file: %w", err)
	}

	var m domain.Migration
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse migration file %s: %w", p, err)
	}
	if err := checkVersion(m.Version); err != nil {
		return nil, fmt.Errorf("migration file %s: %w", p, err)
	}
	if m.ID != id {
		return nil, fmt.Errorf("migration file %s declares id %q", p, m.ID)
	}
	return &m, nil
}

func checkVersion(v string) error {
	parsed, err := version.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w %q", domain.ErrUnsupportedVersion, v)
	}
	if !supportedVersions.Check(parsed) {
		return fmt.Errorf("%w %q (supported %s)", domain.ErrUnsupportedVersion, v, supportedVersions)
	}
	return nil
}

var _ MigrationRepository = (*FileMigrationRepository)(nil)
