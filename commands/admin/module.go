package admin

import (
	"fmt"
	"strings"

	"HelpBot/bot"
	"HelpBot/commands"
	"HelpBot/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Toggler validates enable/disable requests against the known commands and
// categories.
type Toggler struct {
	registry   *commands.Registry
	categories *commands.CategoryRegistry
}

func NewToggler(registry *commands.Registry, categories *commands.CategoryRegistry) *Toggler {
	return &Toggler{registry: registry, categories: categories}
}

func Module(t *Toggler) *commands.ModuleInfo {
	return &commands.ModuleInfo{
		Name:        "Admin",
		Description: "Per-server command management",
		Version:     "1.0.0",
		Category:    "ADMIN",
		Commands: []commands.CommandInfo{
			{
				Name:        "disable",
				Description: "Disables a command or category in this server",
				Usage:       "<command|category> <name>",
				Handler:     t.DisableCommand,
			},
			{
				Name:        "enable",
				Description: "Enables a command or category in this server",
				Usage:       "<command|category> <name>",
				Handler:     t.EnableCommand,
			},
		},
	}
}

// target parses "<command|category> <name>" and resolves the name to the
// form stored in disabled_commands. msg is set when the request is invalid.
func (t *Toggler) target(args []string) (kind, name, msg string) {
	if len(args) < 3 {
		return "", "", fmt.Sprintf("Usage: `%s command <command>` or `%s category <category>`", args[0], args[0])
	}

	kind = strings.ToLower(args[1])
	name = strings.ToLower(args[2])
	switch kind {
	case bot.DisabledTypeCommand:
		cmd, ok := t.registry.GetCommand(name)
		if ok {
			name = strings.ToLower(cmd.Name)
		} else if _, ok := t.registry.GetSlashCommand(name); !ok {
			return "", "", fmt.Sprintf("Unknown command `%s`.", name)
		}
		if commands.AlwaysAvailable[name] {
			return "", "", "You cannot disable this command."
		}
	case bot.DisabledTypeCategory:
		cat, err := t.categories.Get(name)
		if err != nil {
			return "", "", "Invalid category."
		}
		name = strings.ToLower(cat.Key)
	default:
		return "", "", "Invalid type. Use 'command' or 'category'."
	}
	return kind, name, ""
}

// authorize checks the guild Administrator permission and answers in the
// channel when it is missing.
func authorize(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.GuildID == "" {
		s.ChannelMessageSend(m.ChannelID, "This command only works in a server.")
		return false
	}
	ok, err := utils.CheckAdminPermission(s, m.GuildID, m.Author.ID)
	if err != nil {
		b.Log.Warn("check admin permission", zap.String("guild", m.GuildID), zap.String("user", m.Author.ID), zap.Error(err))
		s.ChannelMessageSend(m.ChannelID, "Error checking admin status.")
		return false
	}
	if !ok {
		s.ChannelMessageSend(m.ChannelID, "You must be an administrator to use this command.")
		return false
	}
	return true
}
