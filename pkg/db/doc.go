// Package db provides database connection utilities for the Omnitron gateway.
//
// This package handles PostgreSQL database connections using GORM.
package db
