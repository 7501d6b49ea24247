// rules.go implements ruleset and rule configuration storage.
//
// Separated from kinds.go because rules carry structured configuration
// (JSON-encoded allow-lists) and an evaluation order, while kinds are flat
// registrations. The service layer turns these rows into live constraint
// rules on every evaluation, so configuration changes take effect
// immediately.
//
// Design: Allow-lists are stored as JSON arrays rather than join tables
// because they are read as a unit on every evaluation and never queried
// element-wise.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/relate-io/relate/internal/validate"
)

// PutRuleset creates or retitles a ruleset.
func (s *SQLiteStore) PutRuleset(ctx context.Context, name, title string) error {
	if err := validate.Name(name); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE rulesets SET title = ? WHERE name = ?
	`, title, name)
	if err != nil {
		return fmt.Errorf("update ruleset %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rulesets (name, title, created_at) VALUES (?, ?, ?)
	`, name, title, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("create ruleset %s: %w", name, err)
	}
	return nil
}

// Ruleset retrieves a ruleset with its rule count.
func (s *SQLiteStore) Ruleset(ctx context.Context, name string) (*RulesetInfo, error) {
	var info RulesetInfo
	var title sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT r.name, r.title, r.created_at,
			(SELECT COUNT(*) FROM rules WHERE ruleset = r.name)
		FROM rulesets r WHERE r.name = ?
	`, name).Scan(&info.Name, &title, &info.CreatedAt, &info.RuleCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load ruleset %s: %w", name, err)
	}
	if title.Valid {
		info.Title = title.String
	}
	return &info, nil
}

// ListRulesets returns all rulesets ordered by name.
func (s *SQLiteStore) ListRulesets(ctx context.Context) ([]RulesetInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.name, r.title, r.created_at,
			(SELECT COUNT(*) FROM rules WHERE ruleset = r.name)
		FROM rulesets r ORDER BY r.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list rulesets: %w", err)
	}
	defer rows.Close()

	var out []RulesetInfo
	for rows.Next() {
		var info RulesetInfo
		var title sql.NullString
		if err := rows.Scan(&info.Name, &title, &info.CreatedAt, &info.RuleCount); err != nil {
			return nil, fmt.Errorf("scan ruleset: %w", err)
		}
		if title.Valid {
			info.Title = title.String
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// PutRule creates or replaces a rule within a ruleset. The ruleset must
// exist. A zero position appends after the current highest position.
func (s *SQLiteStore) PutRule(ctx context.Context, cfg RuleConfig) error {
	if err := validate.Name(cfg.Ruleset); err != nil {
		return err
	}
	if err := validate.Name(cfg.Name); err != nil {
		return err
	}
	if cfg.Variant != VariantKind && cfg.Variant != VariantCapability {
		return fmt.Errorf("%w: %q", ErrUnknownVariant, cfg.Variant)
	}
	if err := validate.Names(cfg.AllowedSources); err != nil {
		return err
	}
	if err := validate.Names(cfg.AllowedTargets); err != nil {
		return err
	}

	sources, err := encodeList(cfg.AllowedSources)
	if err != nil {
		return err
	}
	targets, err := encodeList(cfg.AllowedTargets)
	if err != nil {
		return err
	}

	return s.Tx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `
			SELECT 1 FROM rulesets WHERE name = ?
		`, cfg.Ruleset).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("ruleset %s: %w", cfg.Ruleset, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("check ruleset %s: %w", cfg.Ruleset, err)
		}

		position := cfg.Position
		if position == 0 {
			var max sql.NullInt64
			if err := tx.QueryRowContext(ctx, `
				SELECT MAX(position) FROM rules WHERE ruleset = ?
			`, cfg.Ruleset).Scan(&max); err != nil {
				return fmt.Errorf("next position for %s: %w", cfg.Ruleset, err)
			}
			position = int(max.Int64) + 1
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE rules SET position = ?, variant = ?, allowed_sources = ?, allowed_targets = ?
			WHERE ruleset = ? AND name = ?
		`, position, cfg.Variant, sources, targets, cfg.Ruleset, cfg.Name)
		if err != nil {
			return fmt.Errorf("update rule %s/%s: %w", cfg.Ruleset, cfg.Name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO rules (ruleset, name, position, variant, allowed_sources, allowed_targets, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, cfg.Ruleset, cfg.Name, position, cfg.Variant, sources, targets, time.Now().Unix())
		if err != nil {
			return fmt.Errorf("create rule %s/%s: %w", cfg.Ruleset, cfg.Name, err)
		}
		return nil
	})
}

// Rule retrieves a single rule.
func (s *SQLiteStore) Rule(ctx context.Context, ruleset, name string) (*RuleConfig, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT ruleset, name, position, variant, allowed_sources, allowed_targets, created_at
		FROM rules WHERE ruleset = ? AND name = ?
	`, ruleset, name)

	cfg, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load rule %s/%s: %w", ruleset, name, err)
	}
	return &cfg, nil
}

// Rules returns a ruleset's rules ordered by position. Position order is the
// evaluation order: the first vocabulary provider searches, the rest filter.
func (s *SQLiteStore) Rules(ctx context.Context, ruleset string) ([]RuleConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ruleset, name, position, variant, allowed_sources, allowed_targets, created_at
		FROM rules WHERE ruleset = ?
		ORDER BY position, name
	`, ruleset)
	if err != nil {
		return nil, fmt.Errorf("list rules for %s: %w", ruleset, err)
	}
	defer rows.Close()

	var out []RuleConfig
	for rows.Next() {
		cfg, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}

// RemoveRule deletes a rule from a ruleset.
func (s *SQLiteStore) RemoveRule(ctx context.Context, ruleset, name string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM rules WHERE ruleset = ? AND name = ?
	`, ruleset, name)
	if err != nil {
		return fmt.Errorf("remove rule %s/%s: %w", ruleset, name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveRuleset deletes a ruleset and its rules, and soft-deletes the
// references it governs. The references stay recoverable until vacuum in
// case the ruleset is recreated.
func (s *SQLiteStore) RemoveRuleset(ctx context.Context, name string) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM rules WHERE ruleset = ?
		`, name); err != nil {
			return fmt.Errorf("remove rules for %s: %w", name, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM rulesets WHERE name = ?`, name)
		if err != nil {
			return fmt.Errorf("remove ruleset %s: %w", name, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE refs SET deleted_at = ? WHERE ruleset = ? AND deleted_at IS NULL
		`, time.Now().Unix(), name); err != nil {
			return fmt.Errorf("remove references for %s: %w", name, err)
		}
		return nil
	})
}

// scanRule extracts a RuleConfig from a row, decoding the JSON allow-lists.
func scanRule(sc scanner) (RuleConfig, error) {
	var cfg RuleConfig
	var sources, targets string
	err := sc.Scan(&cfg.Ruleset, &cfg.Name, &cfg.Position, &cfg.Variant, &sources, &targets, &cfg.CreatedAt)
	if err != nil {
		return cfg, err
	}
	if cfg.AllowedSources, err = decodeList(sources); err != nil {
		return cfg, err
	}
	if cfg.AllowedTargets, err = decodeList(targets); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// encodeList serialises an allow-list for storage. Nil encodes as an empty
// array so the restricted/unrestricted distinction stays with list length.
func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode allow-list: %w", err)
	}
	return string(data), nil
}

// decodeList deserialises an allow-list. An empty array decodes to nil so
// len() checks behave the same for both representations.
func decodeList(data string) ([]string, error) {
	var list []string
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("decode allow-list: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list, nil
}
