package neo4j

import (
	"context"
	"fmt"

	"kgqa/pkg/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config contains the connection settings for a Neo4j store.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// Neo4jStore implements store.GraphStore on the Neo4j bolt driver.
// One driver is opened per run and reused for every query; each call
// opens a short-lived session around a managed transaction.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

// Connect opens a driver for the given configuration and verifies
// connectivity. An unreachable host or bad credentials fail here, not
// on the first query.
func Connect(ctx context.Context, config Config) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(
		config.URI,
		neo4j.BasicAuth(config.Username, config.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to %s: %w", config.URI, err)
	}

	return &Neo4jStore{
		driver:   driver,
		database: config.Database,
	}, nil
}

// ExecuteRead runs a Cypher query in a read transaction and returns
// the collected rows.
func (s *Neo4jStore) ExecuteRead(ctx context.Context, cypher string, params map[string]any) ([]store.Row, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRows(ctx, tx, cypher, params)
	})
	if err != nil {
		return nil, fmt.Errorf("read query failed: %w", err)
	}

	return result.([]store.Row), nil
}

// ExecuteWrite runs a Cypher query in a write transaction and returns
// the collected rows. Writes are visible to subsequent reads as soon
// as this call returns.
func (s *Neo4jStore) ExecuteWrite(ctx context.Context, cypher string, params map[string]any) ([]store.Row, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRows(ctx, tx, cypher, params)
	})
	if err != nil {
		return nil, fmt.Errorf("write query failed: %w", err)
	}

	return result.([]store.Row), nil
}

// Close releases the driver and all pooled connections.
func (s *Neo4jStore) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Close(ctx)
}

func collectRows(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) ([]store.Row, error) {
	result, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]store.Row, len(records))
	for i, record := range records {
		rows[i] = store.Row(record.AsMap())
	}
	return rows, nil
}
