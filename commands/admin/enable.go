package admin

import (
	"context"
	"fmt"

	"HelpBot/bot"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// EnableCommand allows server admins to re-enable specific commands or categories in their server
func (t *Toggler) EnableCommand(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if !authorize(b, s, m) {
		return
	}
	kind, name, msg := t.target(args)
	if msg != "" {
		s.ChannelMessageSend(m.ChannelID, msg)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	removed, err := b.ClearDisabled(ctx, m.GuildID, kind, name)
	if err != nil {
		b.Log.Error("enable", zap.String("type", kind), zap.String("name", name), zap.String("guild", m.GuildID), zap.Error(err))
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Error enabling %s.", kind))
		return
	}
	if !removed {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("The %s `%s` is not disabled.", kind, name))
		return
	}

	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Successfully enabled %s `%s`.", kind, name))
}
