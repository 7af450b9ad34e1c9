package help

import (
	"HelpBot/commands"

	"github.com/bwmarrin/discordgo"
)

const commandOptionName = "command"

// Module exposes the help command in both invocation modes.
func Module(c *Controller) *commands.ModuleInfo {
	return &commands.ModuleInfo{
		Name:        "Help",
		Description: "Interactive command browser",
		Version:     "2.0.0",
		Category:    "UTILITY",
		Commands: []commands.CommandInfo{
			{
				Name:        "help",
				Aliases:     []string{"h"},
				Description: "Browse the command categories or show help for one command",
				Usage:       "[command]",
				Handler:     c.MessageRun,
			},
		},
		SlashCommands: []commands.SlashCommandInfo{
			{
				Name:        "help",
				Description: "Browse the command categories or show help for one command",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        commandOptionName,
						Description: "Command to show help for",
						Required:    false,
					},
				},
				Handler: c.InteractionRun,
			},
		},
	}
}
