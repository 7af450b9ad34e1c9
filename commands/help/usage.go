package help

import (
	"fmt"
	"strings"

	"HelpBot/commands"

	"github.com/bwmarrin/discordgo"
)

const noMatchText = "No matching command found"

// lookup answers a static help request for one command. Exactly one of embed
// and text is set.
func (c *Controller) lookup(name string, inv Invocation) (embed *discordgo.MessageEmbed, text string) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))
	disabled := c.disabledSet(inv.GuildID)

	if inv.Mode == ModePrefix {
		cmd, ok := c.registry.GetCommand(name)
		if !ok {
			return nil, noMatchText
		}
		if disabled.Command(cmd.Name) {
			return nil, fmt.Sprintf("Command `%s` is disabled.", cmd.Name)
		}
		if disabled.Category(cmd.Category) {
			return nil, fmt.Sprintf("Command `%s` is in category `%s` which is disabled.", cmd.Name, cmd.Category)
		}
		return c.prefixUsage(cmd, name, inv.Prefix), ""
	}

	cmd, ok := c.registry.GetSlashCommand(name)
	if !ok {
		return nil, noMatchText
	}
	if disabled.Command(cmd.Name) {
		return nil, fmt.Sprintf("Command `%s` is disabled.", cmd.Name)
	}
	if disabled.Category(cmd.Category) {
		return nil, fmt.Sprintf("Command `%s` is in category `%s` which is disabled.", cmd.Name, cmd.Category)
	}
	return c.slashUsage(cmd), ""
}

// prefixUsage shows the usage the way the user typed the command, alias
// included.
func (c *Controller) prefixUsage(cmd commands.CommandInfo, invoked, prefix string) *discordgo.MessageEmbed {
	usage := prefix + invoked
	if cmd.Usage != "" {
		usage += " " + cmd.Usage
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Help: %s", cmd.Name),
		Description: cmd.Description,
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Usage", Value: fmt.Sprintf("`%s`", usage)},
		},
	}
	if len(cmd.Aliases) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Aliases",
			Value: strings.Join(cmd.Aliases, ", "),
		})
	}
	embed.Fields = append(embed.Fields, c.categoryField(cmd.Category))
	return embed
}

func (c *Controller) slashUsage(cmd commands.SlashCommandInfo) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Help: /%s", cmd.Name),
		Description: cmd.Description,
		Color:       embedColor,
	}

	subs := subCommands(cmd.Options)
	if len(subs) == 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Usage",
			Value: fmt.Sprintf("`%s`", slashLine(cmd.Name, cmd.Options)),
		})
	} else {
		lines := make([]string, 0, len(subs))
		for _, sub := range subs {
			line := fmt.Sprintf("`%s`", slashLine(cmd.Name+" "+sub.Name, sub.Options))
			if sub.Description != "" {
				line += " " + sub.Description
			}
			lines = append(lines, line)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("SubCommands [%d]", len(subs)),
			Value: strings.Join(lines, "\n"),
		})
	}
	embed.Fields = append(embed.Fields, c.categoryField(cmd.Category))
	return embed
}

func (c *Controller) categoryField(key string) *discordgo.MessageEmbedField {
	name := key
	if cat, err := c.categories.Get(key); err == nil {
		name = cat.Name
	}
	return &discordgo.MessageEmbedField{Name: "Category", Value: name}
}

func subCommands(opts []*discordgo.ApplicationCommandOption) []*discordgo.ApplicationCommandOption {
	var out []*discordgo.ApplicationCommandOption
	for _, opt := range opts {
		if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			out = append(out, opt)
		}
	}
	return out
}

// slashLine renders "/name <required> [optional]".
func slashLine(name string, opts []*discordgo.ApplicationCommandOption) string {
	parts := []string{"/" + name}
	for _, opt := range opts {
		if opt.Required {
			parts = append(parts, "<"+opt.Name+">")
		} else {
			parts = append(parts, "["+opt.Name+"]")
		}
	}
	return strings.Join(parts, " ")
}
