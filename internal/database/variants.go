package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Nomadcxx/jellycache/internal/quality"
	"github.com/goccy/go-json"
)

var (
	// ErrVariantNotFound is returned when no variant has the requested key.
	ErrVariantNotFound = errors.New("variant not found")

	// ErrEmptyDescriptor is returned when recording a descriptor with no
	// quality attributes. Such requests carry nothing to distinguish a
	// variant by.
	ErrEmptyDescriptor = errors.New("descriptor has no quality attributes")
)

// Variant is one distinct transcoded quality seen by the proxy.
type Variant struct {
	CacheKey      string             `json:"cacheKey"`
	Description   string             `json:"description"`
	Score         float64            `json:"score"`
	EstimatedSize int64              `json:"estimatedSize"`
	Descriptor    quality.Descriptor `json:"descriptor"`
	HitCount      int64              `json:"hitCount"`
	FirstSeen     time.Time          `json:"firstSeen"`
	LastSeen      time.Time          `json:"lastSeen"`
}

// RecordVariant registers d under its cache key, or bumps the hit count of
// an existing entry. Empty and session-only descriptors are rejected with
// ErrEmptyDescriptor.
func (m *VariantDB) RecordVariant(ctx context.Context, d quality.Descriptor) (*Variant, error) {
	return m.RecordVariantAt(ctx, d, time.Now())
}

// RecordVariantAt is RecordVariant with an explicit observation time.
func (m *VariantDB) RecordVariantAt(ctx context.Context, d quality.Descriptor, seen time.Time) (*Variant, error) {
	if d.WithoutSession().Len() == 0 {
		return nil, ErrEmptyDescriptor
	}

	key := quality.CacheKey(d)
	metrics := quality.Measure(d)

	// Session attributes would make the stored row depend on whoever
	// happened to request the variant first.
	descriptor, err := json.Marshal(d.WithoutSession().Strings())
	if err != nil {
		return nil, fmt.Errorf("encoding descriptor: %w", err)
	}

	m.mu.Lock()
	_, err = m.db.ExecContext(ctx, `
		INSERT INTO variants (
			cache_key, description, score, estimated_size, descriptor,
			hit_count, first_seen, last_seen
		) VALUES (?, ?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			hit_count = hit_count + 1,
			last_seen = MAX(last_seen, excluded.last_seen)`,
		key, metrics.Description, metrics.Score, metrics.EstimatedSize, string(descriptor),
		seen.Unix(), seen.Unix(),
	)
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("recording variant %s: %w", key, err)
	}

	return m.GetVariant(ctx, key)
}

const variantColumns = `cache_key, description, score, estimated_size, descriptor, hit_count, first_seen, last_seen`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVariant(row rowScanner) (*Variant, error) {
	var (
		v               Variant
		descriptor      string
		first, lastSeen int64
	)
	if err := row.Scan(&v.CacheKey, &v.Description, &v.Score, &v.EstimatedSize,
		&descriptor, &v.HitCount, &first, &lastSeen); err != nil {
		return nil, err
	}

	var attrs map[string]string
	if err := json.Unmarshal([]byte(descriptor), &attrs); err != nil {
		return nil, fmt.Errorf("decoding descriptor of %s: %w", v.CacheKey, err)
	}
	v.Descriptor = quality.FromStrings(attrs)
	v.FirstSeen = time.Unix(first, 0).UTC()
	v.LastSeen = time.Unix(lastSeen, 0).UTC()
	return &v, nil
}

// GetVariant returns the variant stored under key.
func (m *VariantDB) GetVariant(ctx context.Context, key string) (*Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row := m.db.QueryRowContext(ctx, `SELECT `+variantColumns+` FROM variants WHERE cache_key = ?`, key)
	v, err := scanVariant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVariantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading variant %s: %w", key, err)
	}
	return v, nil
}

// ListVariants returns up to limit variants, best score first. A limit of
// zero or less returns every variant.
func (m *VariantDB) ListVariants(ctx context.Context, limit int) ([]*Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}

	rows, err := m.db.QueryContext(ctx,
		`SELECT `+variantColumns+` FROM variants ORDER BY score DESC, cache_key ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing variants: %w", err)
	}
	defer rows.Close()

	var variants []*Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// CountVariants returns the number of registered variants.
func (m *VariantDB) CountVariants(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM variants`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting variants: %w", err)
	}
	return count, nil
}

// DeleteVariant removes the variant stored under key.
func (m *VariantDB) DeleteVariant(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, err := m.db.ExecContext(ctx, `DELETE FROM variants WHERE cache_key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting variant %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVariantNotFound
	}
	return nil
}

// PruneOlderThan removes variants not seen since cutoff and returns how
// many were removed.
func (m *VariantDB) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, err := m.db.ExecContext(ctx, `DELETE FROM variants WHERE last_seen < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning variants: %w", err)
	}
	return res.RowsAffected()
}
