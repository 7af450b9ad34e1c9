package general

import (
	"fmt"
	"time"

	"HelpBot/bot"
	"HelpBot/commands"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func Module() *commands.ModuleInfo {
	return &commands.ModuleInfo{
		Name:        "General",
		Description: "General utility commands",
		Version:     "1.0.0",
		Category:    "UTILITY",
		Commands: []commands.CommandInfo{
			{
				Name:        "ping",
				Aliases:     []string{"latency"},
				Description: "Shows the gateway latency",
				Handler:     Ping,
			},
		},
		SlashCommands: []commands.SlashCommandInfo{
			{
				Name:        "ping",
				Description: "Shows the gateway latency",
				Handler:     PingSlash,
			},
		},
	}
}

func pingText(s *discordgo.Session) string {
	return fmt.Sprintf("🏓 Pong! Gateway latency: `%dms`", s.HeartbeatLatency().Round(time.Millisecond).Milliseconds())
}

func Ping(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if _, err := s.ChannelMessageSendReply(m.ChannelID, pingText(s), m.Reference()); err != nil {
		b.Log.Warn("send ping", zap.String("channel", m.ChannelID), zap.Error(err))
	}
}

func PingSlash(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: pingText(s)},
	})
	if err != nil {
		b.Log.Warn("respond to /ping", zap.Error(err))
	}
}
