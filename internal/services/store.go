package services

import "context"

// Store is the slice of the database client the services depend on.
// *database.Neo4jClient satisfies it; tests substitute a fake.
type Store interface {
	ExecuteRead(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error)
	ExecuteWrite(ctx context.Context, query string, params map[string]interface{}) error
	ExecuteWriteWithResult(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error)
}
