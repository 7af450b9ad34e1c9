package help

import (
	"strings"

	"HelpBot/bot"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// MessageSender is the transport a prefix invocation needs.
type MessageSender interface {
	Transport
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// FollowupSender is the transport a slash invocation needs.
type FollowupSender interface {
	Transport
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// HandleComponent routes a component interaction to the session of the
// message it was clicked on. Anything that is not ours is left alone.
func (c *Controller) HandleComponent(t Transport, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent || i.Message == nil {
		return
	}
	if !isHelpComponent(i.MessageComponentData().CustomID) {
		return
	}
	sess, ok := c.sessions.get(i.Message.ID)
	if !ok {
		return
	}
	sess.handle(i)
}

// MessageRun is the prefix help command.
func (c *Controller) MessageRun(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	c.runPrefix(s, botUser(s), m, args)
}

// InteractionRun is the /help command.
func (c *Controller) InteractionRun(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	c.runSlash(s, botUser(s), i)
}

func (c *Controller) runPrefix(t MessageSender, me *discordgo.User, m *discordgo.MessageCreate, args []string) {
	inv := Invocation{Mode: ModePrefix, Prefix: c.opts.Prefix, GuildID: m.GuildID, BotUser: me}

	if len(args) > 1 {
		embed, text := c.lookup(args[1], inv)
		send := &discordgo.MessageSend{Content: text, Reference: m.Reference()}
		if embed != nil {
			send.Embeds = []*discordgo.MessageEmbed{embed}
		}
		if _, err := t.ChannelMessageSendComplex(m.ChannelID, send); err != nil {
			c.log.Warn("send help lookup", zap.String("channel", m.ChannelID), zap.Error(err))
		}
		return
	}

	payload, interactive := c.RenderInitialMenu(inv)
	msg, err := t.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds:     payload.Embeds,
		Components: payload.Components,
		Reference:  m.Reference(),
	})
	if err != nil {
		c.log.Warn("send help menu", zap.String("channel", m.ChannelID), zap.Error(err))
		return
	}
	if interactive {
		c.Attach(t, msg, m.Author.ID, inv, payload)
	}
}

func (c *Controller) runSlash(t FollowupSender, me *discordgo.User, i *discordgo.InteractionCreate) {
	inv := Invocation{Mode: ModeSlash, Prefix: "/", GuildID: i.GuildID, BotUser: me}

	err := t.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		c.log.Warn("defer /help", zap.Error(err))
		return
	}

	if name := commandOption(i); name != "" {
		embed, text := c.lookup(name, inv)
		params := &discordgo.WebhookParams{Content: text}
		if embed != nil {
			params.Embeds = []*discordgo.MessageEmbed{embed}
		}
		if _, err := t.FollowupMessageCreate(i.Interaction, false, params); err != nil {
			c.log.Warn("send /help lookup", zap.Error(err))
		}
		return
	}

	payload, interactive := c.RenderInitialMenu(inv)
	msg, err := t.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds:     payload.Embeds,
		Components: payload.Components,
	})
	if err != nil {
		c.log.Warn("send /help menu", zap.Error(err))
		return
	}
	if interactive && msg != nil {
		c.Attach(t, msg, interactionUserID(i), inv, payload)
	}
}

func commandOption(i *discordgo.InteractionCreate) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == commandOptionName && opt.Type == discordgo.ApplicationCommandOptionString {
			return strings.TrimSpace(opt.StringValue())
		}
	}
	return ""
}

func botUser(s *discordgo.Session) *discordgo.User {
	if s == nil || s.State == nil {
		return nil
	}
	return s.State.User
}
