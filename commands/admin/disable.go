package admin

import (
	"context"
	"fmt"
	"time"

	"HelpBot/bot"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const storeTimeout = 5 * time.Second

// DisableCommand allows server admins to disable specific commands or categories in their server
func (t *Toggler) DisableCommand(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
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

	if err := b.SetDisabled(ctx, m.GuildID, kind, name); err != nil {
		b.Log.Error("disable", zap.String("type", kind), zap.String("name", name), zap.String("guild", m.GuildID), zap.Error(err))
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Error disabling %s.", kind))
		return
	}

	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Successfully disabled %s `%s`.", kind, name))
}
