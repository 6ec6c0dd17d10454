// Package cockroachdb implements the CockroachDB database adapter.
package cockroachdb

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/satishbabariya/kiln/internal/adapters/database"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// CockroachDBAdapter implements database.Adapter for CockroachDB using the
// pgx driver.
type CockroachDBAdapter struct {
	*database.SQLAdapter
}

// NewCockroachDBAdapter creates a new CockroachDB adapter. The connection
// string is parsed up front so malformed URLs fail before any I/O.
func NewCockroachDBAdapter(config database.Config) (*CockroachDBAdapter, error) {
	connConfig, err := pgx.ParseConfig(config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid cockroachdb connection string: %w", err)
	}
	if connConfig.RuntimeParams == nil {
		connConfig.RuntimeParams = map[string]string{}
	}
	if _, ok := connConfig.RuntimeParams["application_name"]; !ok {
		connConfig.RuntimeParams["application_name"] = "kiln"
	}

	config.Dialect = domain.CockroachDB
	dsn := stdlib.RegisterConnConfig(connConfig)
	return &CockroachDBAdapter{
		SQLAdapter: database.NewSQLAdapter("pgx", dsn, config, nil),
	}, nil
}

var _ database.Adapter = (*CockroachDBAdapter)(nil)
