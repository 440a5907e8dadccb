package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Package is one row of the intake ledger.
type Package struct {
	Code         string
	Zone         string
	ReceivedAt   time.Time
	ResolvedName *string
}

const packageColumns = "code, zone, received_at, resolved_name"

func scanPackage(scanner interface{ Scan(dest ...any) error }) (Package, error) {
	var (
		pkg      Package
		received sql.NullString
		name     sql.NullString
	)
	if err := scanner.Scan(&pkg.Code, &pkg.Zone, &received, &name); err != nil {
		return Package{}, err
	}
	pkg.ReceivedAt = parseTime(received)
	pkg.ResolvedName = stringPointer(name)
	return pkg, nil
}

// UpsertPackage writes or overwrites the row for pkg.Code.
func (s *Store) UpsertPackage(ctx context.Context, pkg Package) error {
	if pkg.Code == "" {
		return errors.New("package code is empty")
	}
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO packages (`+packageColumns+`) VALUES (?, ?, ?, ?)
         ON CONFLICT(code) DO UPDATE SET
             zone = excluded.zone,
             received_at = excluded.received_at,
             resolved_name = excluded.resolved_name`,
		pkg.Code,
		pkg.Zone,
		formatTime(pkg.ReceivedAt),
		nullableString(pkg.ResolvedName),
	)
	if err != nil {
		return fmt.Errorf("upsert package: %w", err)
	}
	return nil
}

// DeletePackage removes the row for code and reports whether one existed.
func (s *Store) DeletePackage(ctx context.Context, code string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM packages WHERE code = ?`, code)
	if err != nil {
		return false, fmt.Errorf("delete package: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete package rows affected: %w", err)
	}
	return affected > 0, nil
}

// GetPackage returns the row for code, or nil when absent.
func (s *Store) GetPackage(ctx context.Context, code string) (*Package, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+packageColumns+` FROM packages WHERE code = ?`, code)
	pkg, err := scanPackage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}
	return &pkg, nil
}

// ListPackages returns up to limit rows, most recently received first. A
// limit of zero or less returns every row.
func (s *Store) ListPackages(ctx context.Context, limit int) ([]Package, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+packageColumns+` FROM packages ORDER BY received_at DESC, code ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var packages []Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		packages = append(packages, pkg)
	}
	return packages, rows.Err()
}

// CountPackages returns the number of ledger rows.
func (s *Store) CountPackages(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM packages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count packages: %w", err)
	}
	return count, nil
}
