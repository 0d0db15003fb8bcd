package persistence

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/FatihZee/tele-bot/infrastructure/configuration"

	_ "github.com/microsoft/go-mssqldb"
)

// NewMSSQLDB creates a sql.DB for Azure SQL / SQL Server using native database/sql.
func NewMSSQLDB() (*sql.DB, error) {
	cfg := configuration.C.Database.Mssql

	dsn := cfg.URI
	if dsn == "" {
		// Build sqlserver:// user:pass@host:port?database=DB&encrypt=true
		q := url.Values{}
		if cfg.Name != "" {
			q.Set("database", cfg.Name)
		}
		// Azure SQL requires encrypt=true; trust server cert left false by default
		q.Set("encrypt", "true")
		// Local containers run with a self-signed certificate
		if cfg.Host == "localhost" || cfg.Host == "127.0.0.1" {
			q.Set("TrustServerCertificate", "true")
		}

		u := &url.URL{Scheme: "sqlserver", Host: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)}
		if cfg.User != "" {
			if cfg.Password != "" {
				u.User = url.UserPassword(cfg.User, cfg.Password)
			} else {
				u.User = url.User(cfg.User)
			}
		}
		u.RawQuery = q.Encode()
		dsn = u.String()
	}

	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
