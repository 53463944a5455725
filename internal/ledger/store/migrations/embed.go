package migrations

import "embed"

// FS contains the ledger account schema for each SQL backend.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
