package commands

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"HelpBot/bot"

	"github.com/bwmarrin/discordgo"
)

var ErrDuplicateCommand = errors.New("duplicate command")

// CommandFunc defines the signature for prefix command handlers
type CommandFunc func(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string)

// SlashFunc defines the signature for slash command handlers
type SlashFunc func(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate)

// CommandInfo holds detailed information about a prefix command
type CommandInfo struct {
	Name        string      `json:"name"`
	Aliases     []string    `json:"aliases"`
	Description string      `json:"description"`
	Usage       string      `json:"usage"`
	Category    string      `json:"category"`
	Handler     CommandFunc `json:"-"`
}

// SlashCommandInfo holds information about slash commands
type SlashCommandInfo struct {
	Name        string                                `json:"name"`
	Description string                                `json:"description"`
	Category    string                                `json:"category"`
	Options     []*discordgo.ApplicationCommandOption `json:"options"`
	Handler     SlashFunc                             `json:"-"`
}

// ModuleInfo represents a complete module with its commands and metadata
type ModuleInfo struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Version       string             `json:"version"`
	Category      string             `json:"category"`
	Commands      []CommandInfo      `json:"commands"`
	SlashCommands []SlashCommandInfo `json:"slash_commands"`
}

// CommandSummary is the read-only view of a command used for listings.
type CommandSummary struct {
	Name            string
	Description     string
	Category        string
	Usage           string
	Aliases         []string
	SubCommandNames []string
}

func (c CommandInfo) Summary() CommandSummary {
	return CommandSummary{
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		Usage:       c.Usage,
		Aliases:     append([]string(nil), c.Aliases...),
	}
}

func (c SlashCommandInfo) Summary() CommandSummary {
	return CommandSummary{
		Name:            c.Name,
		Description:     c.Description,
		Category:        c.Category,
		SubCommandNames: c.SubCommandNames(),
	}
}

func (c SlashCommandInfo) SubCommandNames() []string {
	var names []string
	for _, opt := range c.Options {
		if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			names = append(names, opt.Name)
		}
	}
	return names
}

// Registry holds every module the bot serves. Commands keep their
// registration order so listings are stable.
type Registry struct {
	mu       sync.RWMutex
	modules  []*ModuleInfo
	commands []CommandInfo
	byName   map[string]int
	aliases  map[string]string
	slash    []SlashCommandInfo
	slashIdx map[string]int
}

func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]int),
		aliases:  make(map[string]string),
		slashIdx: make(map[string]int),
	}
}

// RegisterModule adds a module and its commands. Commands without a category
// inherit the module's.
func (r *Registry) RegisterModule(module *ModuleInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cmd := range module.Commands {
		name := strings.ToLower(cmd.Name)
		if _, exists := r.byName[name]; exists {
			return fmt.Errorf("%w: %s (module %s)", ErrDuplicateCommand, cmd.Name, module.Name)
		}
		if _, exists := r.aliases[name]; exists {
			return fmt.Errorf("%w: %s shadows an alias (module %s)", ErrDuplicateCommand, cmd.Name, module.Name)
		}
		for _, alias := range cmd.Aliases {
			alias = strings.ToLower(alias)
			if _, exists := r.byName[alias]; exists {
				return fmt.Errorf("%w: alias %s (module %s)", ErrDuplicateCommand, alias, module.Name)
			}
			if _, exists := r.aliases[alias]; exists {
				return fmt.Errorf("%w: alias %s (module %s)", ErrDuplicateCommand, alias, module.Name)
			}
		}
	}
	for _, cmd := range module.SlashCommands {
		if _, exists := r.slashIdx[cmd.Name]; exists {
			return fmt.Errorf("%w: /%s (module %s)", ErrDuplicateCommand, cmd.Name, module.Name)
		}
	}

	r.modules = append(r.modules, module)

	for _, cmd := range module.Commands {
		if cmd.Category == "" {
			cmd.Category = module.Category
		}
		name := strings.ToLower(cmd.Name)
		r.byName[name] = len(r.commands)
		r.commands = append(r.commands, cmd)
		for _, alias := range cmd.Aliases {
			r.aliases[strings.ToLower(alias)] = name
		}
	}

	for _, cmd := range module.SlashCommands {
		if cmd.Category == "" {
			cmd.Category = module.Category
		}
		r.slashIdx[cmd.Name] = len(r.slash)
		r.slash = append(r.slash, cmd)
	}
	return nil
}

// GetCommand resolves a prefix command by name or alias.
func (r *Registry) GetCommand(name string) (CommandInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.ToLower(name)
	if actual, isAlias := r.aliases[name]; isAlias {
		name = actual
	}
	idx, ok := r.byName[name]
	if !ok {
		return CommandInfo{}, false
	}
	return r.commands[idx], true
}

func (r *Registry) GetSlashCommand(name string) (SlashCommandInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.slashIdx[name]
	if !ok {
		return SlashCommandInfo{}, false
	}
	return r.slash[idx], true
}

// Modules returns the registered modules in registration order.
func (r *Registry) Modules() []*ModuleInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*ModuleInfo(nil), r.modules...)
}

// CommandsIn returns the prefix commands of a category.
func (r *Registry) CommandsIn(category string) []CommandSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []CommandSummary
	for _, cmd := range r.commands {
		if strings.EqualFold(cmd.Category, category) {
			out = append(out, cmd.Summary())
		}
	}
	return out
}

// SlashCommandsIn returns the slash commands of a category.
func (r *Registry) SlashCommandsIn(category string) []CommandSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []CommandSummary
	for _, cmd := range r.slash {
		if strings.EqualFold(cmd.Category, category) {
			out = append(out, cmd.Summary())
		}
	}
	return out
}

// ApplicationCommands returns all registered slash commands for registration
func (r *Registry) ApplicationCommands() []*discordgo.ApplicationCommand {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := make([]*discordgo.ApplicationCommand, 0, len(r.slash))
	for _, slashCmd := range r.slash {
		commands = append(commands, &discordgo.ApplicationCommand{
			Name:        slashCmd.Name,
			Description: slashCmd.Description,
			Options:     slashCmd.Options,
		})
	}
	return commands
}
