// Package database provides a unified interface for connecting to nonce
// replay backends.
//
// A Verifier configured with a nonce store rejects any request whose
// x-acs-signature-nonce was already accepted. The store only has to remember
// nonces for as long as the verifier's clock skew window, so old rows are
// purged periodically.
//
// # Supported Backends
//
//   - memory: a mutex-guarded map, per process, lost on restart
//   - sqlite: single node persistence using modernc.org/sqlite
//   - postgres: shared across gateway replicas using a pgx connection pool
//
// # Usage
//
//	store, cleanup, err := database.Open(ctx, database.Config{
//	    Type:  "sqlite",
//	    DSN:   "acsign.db",
//	    Table: "acsign_nonces",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
//
// Open runs migrations and validates the table schema before returning.
package database
