package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vanderheijden86/roadmap/pkg/debug"
	"github.com/vanderheijden86/roadmap/pkg/render"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"

	"golang.org/x/sync/errgroup"
)

// DefaultParallelism bounds concurrent file writes in ExportAll.
const DefaultParallelism = 4

// Options controls how a graph is rendered.
type Options struct {
	Mode render.Mode
	// Title is drawn in the snapshot header. Defaults to RoleLabel, then
	// the role id.
	Title     string
	RoleLabel string
	// Selected and Highlight mark a node and connector the way the viewer
	// does.
	Selected  string
	Highlight *roadmap.Edge
	// Width and Height size PNG and SVG snapshots in pixels.
	Width  int
	Height int
}

func (o Options) title(scene render.Scene) string {
	switch {
	case o.Title != "":
		return o.Title
	case o.RoleLabel != "":
		return o.RoleLabel + " roadmap"
	default:
		return string(scene.Role) + " roadmap"
	}
}

func (o Options) scene(g roadmap.Graph) render.Scene {
	return render.BuildScene(g, o.Mode, render.Options{Selected: o.Selected, Highlight: o.Highlight})
}

// Write renders g to w in a per-graph format.
func Write(w io.Writer, g roadmap.Graph, format Format, opts Options) error {
	scene := opts.scene(g)
	switch format {
	case FormatSVG:
		return writeSVG(w, scene, opts)
	case FormatPNG:
		return writePNG(w, scene, opts)
	case FormatMermaid:
		return writeMermaid(w, g, opts)
	case FormatJSON:
		return writeJSON(w, g, scene, opts)
	case FormatSQLite:
		return fmt.Errorf("%w: sqlite holds a whole dataset, use ExportSQLite", ErrUnsupportedFormat)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// SaveGraph writes g to path. An empty format is inferred from the path.
func SaveGraph(path string, g roadmap.Graph, format Format, opts Options) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		format = f
	}
	if !format.PerGraph() {
		return Write(io.Discard, g, format, opts)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(file)
	if err := Write(bw, g, format, opts); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("render %s: %w", g.Role, err)
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// ExportAll writes every graph of ds into dir, one file per role named
// after the role id. SQLite writes a single roadmap.sqlite3 instead. It
// returns the written paths in dataset order.
func ExportAll(ctx context.Context, ds *roadmap.Dataset, dir string, format Format, opts Options) ([]string, error) {
	if ds == nil {
		return nil, fmt.Errorf("no dataset")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if !format.PerGraph() {
		path := filepath.Join(dir, "roadmap"+format.Ext())
		if err := ExportSQLite(ctx, path, ds); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	start := time.Now()
	ids := ds.GraphIDs()
	paths := make([]string, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultParallelism)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o := opts
			o.RoleLabel = ds.RoleLabel(id)
			o.Title = ""
			path := filepath.Join(dir, string(id)+format.Ext())
			if err := SaveGraph(path, ds.Graph(id), format, o); err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	debug.LogTiming("export.all."+string(format), time.Since(start))
	return paths, nil
}
