package commands

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"
	"gopkg.in/yaml.v3"
)

var ErrUnknownCategory = errors.New("unknown category")

//go:embed categories.yaml
var defaultCategories []byte

// Category is a group of commands shown as one entry of the help menu.
type Category struct {
	Key     string `yaml:"key"`
	Name    string `yaml:"name"`
	Emoji   string `yaml:"emoji"`
	EmojiID string `yaml:"emoji_id"`
	Image   string `yaml:"image"`
	Enabled *bool  `yaml:"enabled"`
}

// IsEnabled reports whether the category is offered. Missing means enabled.
func (c Category) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// ComponentEmoji returns the emoji for select options, or nil when none is set.
func (c Category) ComponentEmoji() *discordgo.ComponentEmoji {
	if c.Emoji == "" && c.EmojiID == "" {
		return nil
	}
	return &discordgo.ComponentEmoji{Name: c.Emoji, ID: c.EmojiID}
}

// Label is the emoji and name as shown inside embed text.
func (c Category) Label() string {
	switch {
	case c.EmojiID != "":
		return fmt.Sprintf("<:%s:%s> %s", c.Emoji, c.EmojiID, c.Name)
	case c.Emoji != "":
		return c.Emoji + " " + c.Name
	default:
		return c.Name
	}
}

// CategoryRegistry is the ordered set of categories.
type CategoryRegistry struct {
	ordered []Category
	byKey   map[string]int
}

type categoryFile struct {
	Categories []Category `yaml:"categories"`
}

// ParseCategories decodes a YAML category list.
func ParseCategories(data []byte) (*CategoryRegistry, error) {
	var file categoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	reg := &CategoryRegistry{byKey: make(map[string]int)}
	for _, cat := range file.Categories {
		cat.Key = strings.ToUpper(strings.TrimSpace(cat.Key))
		if cat.Key == "" {
			return nil, errors.New("category without key")
		}
		if _, dup := reg.byKey[cat.Key]; dup {
			return nil, fmt.Errorf("category %s defined twice", cat.Key)
		}
		if cat.Name == "" {
			cat.Name = cat.Key
		}
		reg.byKey[cat.Key] = len(reg.ordered)
		reg.ordered = append(reg.ordered, cat)
	}
	return reg, nil
}

// LoadCategories reads categories from path, falling back to the built-in set
// when path is empty.
func LoadCategories(path string) (*CategoryRegistry, error) {
	if path == "" {
		return DefaultCategories(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}
	return ParseCategories(data)
}

func DefaultCategories() *CategoryRegistry {
	reg, err := ParseCategories(defaultCategories)
	if err != nil {
		panic(fmt.Sprintf("embedded categories.yaml: %v", err))
	}
	return reg
}

// Get looks a category up by key, case-insensitively.
func (r *CategoryRegistry) Get(key string) (Category, error) {
	idx, ok := r.byKey[strings.ToUpper(key)]
	if !ok {
		return Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, key)
	}
	return r.ordered[idx], nil
}

func (r *CategoryRegistry) All() []Category {
	return append([]Category(nil), r.ordered...)
}

// Enabled returns the enabled categories in configuration order.
func (r *CategoryRegistry) Enabled() []Category {
	var out []Category
	for _, cat := range r.ordered {
		if cat.IsEnabled() {
			out = append(out, cat)
		}
	}
	return out
}
