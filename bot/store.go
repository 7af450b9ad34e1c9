package bot

import (
	"context"
	"fmt"
	"strings"
)

const (
	DisabledTypeCommand  = "command"
	DisabledTypeCategory = "category"
)

// DisabledSet lists the commands and categories switched off in one guild.
// A nil set disables nothing.
type DisabledSet struct {
	Commands   map[string]bool
	Categories map[string]bool
}

func NewDisabledSet() *DisabledSet {
	return &DisabledSet{
		Commands:   make(map[string]bool),
		Categories: make(map[string]bool),
	}
}

func (d *DisabledSet) Command(name string) bool {
	if d == nil {
		return false
	}
	return d.Commands[strings.ToLower(name)]
}

func (d *DisabledSet) Category(key string) bool {
	if d == nil {
		return false
	}
	return d.Categories[strings.ToLower(key)]
}

func (d *DisabledSet) Add(kind, name string) {
	switch kind {
	case DisabledTypeCommand:
		d.Commands[strings.ToLower(name)] = true
	case DisabledTypeCategory:
		d.Categories[strings.ToLower(name)] = true
	}
}

// DisabledSet loads what is disabled in guildID. DMs have no guild and
// nothing is disabled there.
func (b *Bot) DisabledSet(ctx context.Context, guildID string) (*DisabledSet, error) {
	set := NewDisabledSet()
	if guildID == "" {
		return set, nil
	}

	rows, err := b.Db.QueryContext(ctx, "SELECT name, type FROM disabled_commands WHERE guild_id = $1", guildID)
	if err != nil {
		return nil, fmt.Errorf("query disabled commands for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, fmt.Errorf("scan disabled command: %w", err)
		}
		set.Add(kind, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate disabled commands: %w", err)
	}
	return set, nil
}

func (b *Bot) SetDisabled(ctx context.Context, guildID, kind, name string) error {
	_, err := b.Db.ExecContext(ctx, `
		INSERT INTO disabled_commands (guild_id, name, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, name)
		DO UPDATE SET type = $3`,
		guildID, strings.ToLower(name), kind)
	if err != nil {
		return fmt.Errorf("disable %s %s in guild %s: %w", kind, name, guildID, err)
	}
	return nil
}

// ClearDisabled re-enables name. It reports whether anything was removed.
func (b *Bot) ClearDisabled(ctx context.Context, guildID, kind, name string) (bool, error) {
	res, err := b.Db.ExecContext(ctx,
		"DELETE FROM disabled_commands WHERE guild_id = $1 AND name = $2 AND type = $3",
		guildID, strings.ToLower(name), kind)
	if err != nil {
		return false, fmt.Errorf("enable %s %s in guild %s: %w", kind, name, guildID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
