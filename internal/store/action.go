package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/input"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ActionStore manages gesture-action bindings.
type ActionStore struct {
	db *sql.DB
}

// Upsert inserts or replaces the binding for an action's gesture.
func (a *ActionStore) Upsert(act input.Action) error {
	if err := act.Validate(); err != nil {
		return err
	}

	_, err := a.db.Exec(`
		INSERT INTO actions (id, gesture, kind, key, button, dx, dy, command, continuous, enabled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(gesture) DO UPDATE SET
			kind = excluded.kind,
			key = excluded.key,
			button = excluded.button,
			dx = excluded.dx,
			dy = excluded.dy,
			command = excluded.command,
			continuous = excluded.continuous,
			enabled = excluded.enabled,
			updated_at = CURRENT_TIMESTAMP`,
		uuid.NewString(), act.Gesture, string(act.Kind), act.Key, act.Button,
		act.DX, act.DY, act.Command, boolToInt(act.Continuous), boolToInt(act.Enabled))
	if err != nil {
		return fmt.Errorf("failed to upsert action for %s: %w", act.Gesture, err)
	}
	return nil
}

// GetByGesture returns the binding for a gesture label.
func (a *ActionStore) GetByGesture(gesture string) (input.Action, error) {
	row := a.db.QueryRow(`
		SELECT gesture, kind, key, button, dx, dy, command, continuous, enabled
		FROM actions WHERE gesture = ?`, gesture)

	act, err := scanAction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return input.Action{}, ErrNotFound
	}
	if err != nil {
		return input.Action{}, fmt.Errorf("failed to get action for %s: %w", gesture, err)
	}
	return act, nil
}

// List returns all bindings ordered by gesture label.
func (a *ActionStore) List() ([]input.Action, error) {
	rows, err := a.db.Query(`
		SELECT gesture, kind, key, button, dx, dy, command, continuous, enabled
		FROM actions ORDER BY gesture`)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	var actions []input.Action
	for rows.Next() {
		act, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, act)
	}
	return actions, rows.Err()
}

// Delete removes the binding for a gesture label.
func (a *ActionStore) Delete(gesture string) error {
	res, err := a.db.Exec(`DELETE FROM actions WHERE gesture = ?`, gesture)
	if err != nil {
		return fmt.Errorf("failed to delete action for %s: %w", gesture, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored bindings.
func (a *ActionStore) Count() (int, error) {
	var n int
	if err := a.db.QueryRow(`SELECT COUNT(*) FROM actions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count actions: %w", err)
	}
	return n, nil
}

// SeedDefaults inserts the stock bindings without overwriting existing ones.
func (a *ActionStore) SeedDefaults() error {
	for _, act := range DefaultActions() {
		_, err := a.GetByGesture(act.Gesture)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := a.Upsert(act); err != nil {
			return err
		}
	}
	return nil
}

// DefaultActions returns the stock gesture-action table.
func DefaultActions() []input.Action {
	return []input.Action{
		{Gesture: "fist", Kind: input.KindClick, Button: "left", Enabled: true},
		{Gesture: "open_palm", Kind: input.KindKey, Key: "space", Enabled: true},
		{Gesture: "point_left", Kind: input.KindMouseMove, DX: -15, DY: 0, Continuous: true, Enabled: true},
		{Gesture: "point_right", Kind: input.KindMouseMove, DX: 15, DY: 0, Continuous: true, Enabled: true},
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAction(row rowScanner) (input.Action, error) {
	var (
		act        input.Action
		kind       string
		continuous int
		enabled    int
	)
	err := row.Scan(&act.Gesture, &kind, &act.Key, &act.Button, &act.DX, &act.DY,
		&act.Command, &continuous, &enabled)
	if err != nil {
		return input.Action{}, err
	}
	act.Kind = input.Kind(kind)
	act.Continuous = continuous != 0
	act.Enabled = enabled != 0
	return act, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
