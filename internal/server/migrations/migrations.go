// Package migrations embeds the goose migrations of every supported SQL engine.
package migrations

import "embed"

// Migrations holds one directory of .sql files per dialect ("postgres", "sqlite").
//
//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
