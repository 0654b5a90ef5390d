package provider

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	dbmodel "github.com/hmpps/licence-management-api/internal/system/database/model"
	"github.com/hmpps/licence-management-api/internal/system/log"
)

// DBClientInterface is the query surface used by the store layer.
type DBClientInterface interface {
	Query(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error)
	Execute(query dbmodel.DBQuery, args ...interface{}) (sql.Result, error)
}

type dbClient struct {
	conn *sqlx.DB
}

func newDBClient(conn *sqlx.DB) DBClientInterface {
	return &dbClient{conn: conn}
}

// Query runs a select statement and returns the result set as generic rows.
// Byte slice column values are converted to strings so callers can treat
// text and JSON columns uniformly.
func (c *dbClient) Query(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBClient"))

	rows, err := c.conn.Queryx(query.Query, args...)
	if err != nil {
		logger.Error("Query execution failed", err, log.String("queryID", query.ID))
		return nil, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			logger.Error("Row scan failed", err, log.String("queryID", query.ID))
			return nil, err
		}
		for key, value := range row {
			if b, ok := value.([]byte); ok {
				row[key] = string(b)
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Execute runs a mutating statement.
func (c *dbClient) Execute(query dbmodel.DBQuery, args ...interface{}) (sql.Result, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBClient"))

	result, err := c.conn.Exec(query.Query, args...)
	if err != nil {
		logger.Error("Statement execution failed", err, log.String("queryID", query.ID))
		return nil, err
	}
	return result, nil
}
