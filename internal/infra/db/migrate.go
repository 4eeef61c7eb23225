package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedded embed.FS

type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Status Direction = "status"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Up, Down, Status:
		return d, nil
	}
	return "", fmt.Errorf("unknown migration direction %q", s)
}

func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrate applies the embedded migrations in the given direction. Status
// lines are written to out.
func Migrate(ctx context.Context, dsn string, dir Direction, out io.Writer) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	p, err := goose.NewProvider(goose.DialectPostgres, sqlDB, Migrations())
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	switch dir {
	case Up:
		res, err := p.Up(ctx)
		for _, r := range res {
			_, _ = fmt.Fprintf(out, "applied %s (%s)\n", r.Source.Path, r.Duration)
		}
		return err
	case Down:
		r, err := p.Down(ctx)
		if r != nil {
			_, _ = fmt.Fprintf(out, "rolled back %s\n", r.Source.Path)
		}
		return err
	case Status:
		st, err := p.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range st {
			_, _ = fmt.Fprintf(out, "%-8s %s\n", s.State, s.Source.Path)
		}
		return nil
	}
	return fmt.Errorf("unknown migration direction %q", dir)
}
