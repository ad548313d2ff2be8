// Package config provides configuration management for pass-fxa.
//
// Values come from, in increasing order of precedence:
//   - defaults declared in `default` struct tags
//   - an optional pass-fxa.yaml in the config directory
//   - environment variables, also read from a .env file (SYNC_BACKEND, LOG_LEVEL, ...)
//
// PASSWORD_STORE_DIR is honoured for store.dir. Secret values left empty
// (sync.api_key, storage.secret_key, database.password, server.api_key) are
// looked up in the OS keyring.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Sync.Backend)
package config
