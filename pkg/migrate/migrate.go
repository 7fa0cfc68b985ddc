package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where `-cmd=create` writes new files; the same files are
// embedded into every binary.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Embedded returns the migrations compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(fmt.Sprintf("migrate: embedded migrations: %v", err))
	}
	return sub
}

// Source picks the on-disk directory when dir is set, else the embedded set.
func Source(dir string) fs.FS {
	if dir == "" {
		return Embedded()
	}
	return os.DirFS(dir)
}

// Runner applies catalog migrations against Postgres.
type Runner struct {
	provider *goose.Provider
}

func NewRunner(db *sql.DB, fsys fs.FS) (*Runner, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if fsys == nil {
		return nil, errors.New("migration source is required")
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return &Runner{provider: provider}, nil
}

// Applied names one migration that ran, for CLI and log output.
type Applied struct {
	Version   int64
	Path      string
	Direction string
}

func (r *Runner) Up(ctx context.Context) ([]Applied, error) {
	results, err := r.provider.Up(ctx)
	if err != nil {
		return applied(results), fmt.Errorf("goose up: %w", err)
	}
	return applied(results), nil
}

// Down rolls back the latest applied migration only.
func (r *Runner) Down(ctx context.Context) ([]Applied, error) {
	result, err := r.provider.Down(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose down: %w", err)
	}
	return applied([]*goose.MigrationResult{result}), nil
}

// Status lists every known migration with whether it is applied.
func (r *Runner) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	statuses, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	return statuses, nil
}

// ToVersion moves the schema up or down until target (YYYYMMDDHHMMSS) is
// the current version.
func (r *Runner) ToVersion(ctx context.Context, target string) ([]Applied, error) {
	version, err := strconv.ParseInt(target, 10, 64)
	if err != nil || version < 0 {
		return nil, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS)", target)
	}
	current, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("get db version: %w", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current == version:
		return nil, nil
	case current < version:
		results, err = r.provider.UpTo(ctx, version)
	default:
		results, err = r.provider.DownTo(ctx, version)
	}
	if err != nil {
		return applied(results), fmt.Errorf("goose to %d: %w", version, err)
	}
	return applied(results), nil
}

func applied(results []*goose.MigrationResult) []Applied {
	out := make([]Applied, 0, len(results))
	for _, res := range results {
		if res == nil || res.Source == nil || res.Empty {
			continue
		}
		out = append(out, Applied{
			Version:   res.Source.Version,
			Path:      res.Source.Path,
			Direction: res.Direction,
		})
	}
	return out
}
