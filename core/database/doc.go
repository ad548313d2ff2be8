// Package database handles database connections and schema inspection.
//
// It wraps GORM to open MySQL or SQLite connections from the application's
// configuration. SQLite is the default and keeps the SQL login-sync backend
// usable without a database server.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns on either dialect. The SQL backend
// uses it to verify that an existing database carries the expected tables
// before it serves logins.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	columns, err := database.GetTableColumns(db, "logins")
package database
