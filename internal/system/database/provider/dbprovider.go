// Package provider exposes database clients to the store layer.
package provider

import (
	"github.com/jmoiron/sqlx"

	"github.com/hmpps/licence-management-api/internal/system/database"
)

type DBProviderInterface interface {
	GetDBClient() (DBClientInterface, error)
}

type dbProvider struct{}

func NewDBProvider() DBProviderInterface {
	return &dbProvider{}
}

func (p *dbProvider) GetDBClient() (DBClientInterface, error) {
	return newDBClient(database.GetInstance().Conn()), nil
}

// NewDBClientFromConn wraps an existing connection. Intended for tests
// backed by sqlmock.
func NewDBClientFromConn(conn *sqlx.DB) DBClientInterface {
	return newDBClient(conn)
}
