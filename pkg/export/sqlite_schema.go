package export

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema version for tracking migrations
const SchemaVersion = 1

var schemaStatements = []struct {
	name string
	sql  string
}{
	{"roles", `
		CREATE TABLE IF NOT EXISTS roles (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			description TEXT,
			position INTEGER NOT NULL,
			listed INTEGER NOT NULL DEFAULT 1
		)`},
	{"nodes", `
		CREATE TABLE IF NOT EXISTS nodes (
			role TEXT NOT NULL REFERENCES roles(id),
			id TEXT NOT NULL,
			label TEXT NOT NULL,
			status TEXT NOT NULL,
			kind TEXT,
			parent TEXT,
			phase TEXT,
			tree_x REAL NOT NULL,
			tree_y REAL NOT NULL,
			timeline_x REAL,
			timeline_y REAL,
			description TEXT,
			why TEXT,
			time TEXT,
			tip TEXT,
			outcome TEXT,
			position INTEGER NOT NULL,
			PRIMARY KEY (role, id)
		)`},
	{"edges", `
		CREATE TABLE IF NOT EXISTS edges (
			role TEXT NOT NULL REFERENCES roles(id),
			from_id TEXT NOT NULL,
			to_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (role, from_id, to_id)
		)`},
	{"skills", `
		CREATE TABLE IF NOT EXISTS skills (
			role TEXT NOT NULL,
			node_id TEXT NOT NULL,
			skill TEXT NOT NULL,
			position INTEGER NOT NULL
		)`},
	{"meta", `
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`},
	{"idx_nodes_status", `CREATE INDEX IF NOT EXISTS idx_nodes_status ON nodes(role, status)`},
	{"idx_skills_node", `CREATE INDEX IF NOT EXISTS idx_skills_node ON skills(role, node_id)`},
}

// CreateSchema creates all tables and indexes in the database.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, st := range schemaStatements {
		if _, err := db.ExecContext(ctx, st.sql); err != nil {
			return fmt.Errorf("create %s: %w", st.name, err)
		}
	}
	return nil
}
