package sqlgen

import (
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// CockroachDBCompiler generates CockroachDB DDL. CockroachDB accepts the
// PostgreSQL forms used here, so the PostgreSQL compiler is reused.
type CockroachDBCompiler struct {
	*PostgresCompiler
}

// NewCockroachDBCompiler creates a new CockroachDB compiler.
func NewCockroachDBCompiler() *CockroachDBCompiler {
	pg := NewPostgresCompiler()
	pg.dialect = domain.CockroachDB
	return &CockroachDBCompiler{PostgresCompiler: pg}
}

var _ Compiler = (*CockroachDBCompiler)(nil)
