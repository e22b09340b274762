package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vanderheijden86/roadmap/pkg/metrics"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"

	_ "modernc.org/sqlite"
)

// ExportSQLite writes every role and graph of ds into a fresh SQLite
// database at path. An existing file is replaced.
func ExportSQLite(ctx context.Context, path string, ds *roadmap.Dataset) error {
	defer metrics.Timer(metrics.SQLiteExport)()

	if ds == nil {
		return fmt.Errorf("no dataset")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	dbClosed := false
	defer func() {
		if !dbClosed {
			db.Close()
		}
	}()

	if err := CreateSchema(ctx, db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := insertDataset(ctx, db, ds); err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	dbClosed = true
	return nil
}

func insertDataset(ctx context.Context, db *sql.DB, ds *roadmap.Dataset) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	roleStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO roles (id, label, description, position, listed)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer roleStmt.Close()

	nodeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (role, id, label, status, kind, parent, phase, tree_x, tree_y,
			timeline_x, timeline_y, description, why, time, tip, outcome, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer nodeStmt.Close()

	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO edges (role, from_id, to_id, position) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer edgeStmt.Close()

	skillStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO skills (role, node_id, skill, position) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer skillStmt.Close()

	for pos, id := range ds.GraphIDs() {
		r, listed := ds.Role(id)
		if !listed {
			r = roadmap.Role{ID: id, Label: string(id)}
		}
		if _, err := roleStmt.ExecContext(ctx, string(id), r.Label, nullString(r.Description), pos, boolInt(listed)); err != nil {
			return fmt.Errorf("role %s: %w", id, err)
		}

		g := ds.Graph(id)
		for i, n := range g.Nodes {
			var tlX, tlY any
			if n.Timeline != nil {
				tlX, tlY = n.Timeline.X, n.Timeline.Y
			}
			d := n.Details
			if _, err := nodeStmt.ExecContext(ctx,
				string(id), n.ID, n.Label, string(n.Status), nullString(string(n.Kind)),
				nullString(n.Parent), nullString(n.Phase), n.Tree.X, n.Tree.Y, tlX, tlY,
				nullString(d.Description), nullString(d.Why), nullString(d.Time),
				nullString(d.Tip), nullString(d.Outcome), i,
			); err != nil {
				return fmt.Errorf("node %s/%s: %w", id, n.ID, err)
			}
			for j, s := range d.Skills {
				if _, err := skillStmt.ExecContext(ctx, string(id), n.ID, s, j); err != nil {
					return fmt.Errorf("skill %s/%s: %w", id, n.ID, err)
				}
			}
		}
		for i, e := range g.Edges {
			if _, err := edgeStmt.ExecContext(ctx, string(id), e.From, e.To, i); err != nil {
				return fmt.Errorf("edge %s %s: %w", id, e, err)
			}
		}
	}

	meta := map[string]string{
		"schema_version": strconv.Itoa(SchemaVersion),
		"default_role":   string(ds.Resolve(ds.Default)),
		"role_count":     strconv.Itoa(len(ds.GraphIDs())),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("meta %s: %w", k, err)
		}
	}

	return tx.Commit()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
