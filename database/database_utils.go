package database

import "time"

// DBConfig connection pool settings shared by every database wrapper
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
