package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"HelpBot/bot"
	"HelpBot/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const disabledLookupTimeout = 3 * time.Second

// DisabledStore reports what a guild has switched off.
type DisabledStore interface {
	DisabledSet(ctx context.Context, guildID string) (*bot.DisabledSet, error)
}

// ComponentHandler receives message component interactions.
type ComponentHandler func(s *discordgo.Session, i *discordgo.InteractionCreate)

// Dispatcher routes gateway events to the registered commands.
type Dispatcher struct {
	bot        *bot.Bot
	registry   *Registry
	disabled   DisabledStore
	limiter    *utils.RateLimiter
	prefix     string
	components []ComponentHandler
	log        *zap.Logger
}

func NewDispatcher(b *bot.Bot, registry *Registry, disabled DisabledStore, limiter *utils.RateLimiter, prefix string) *Dispatcher {
	return &Dispatcher{
		bot:      b,
		registry: registry,
		disabled: disabled,
		limiter:  limiter,
		prefix:   prefix,
		log:      b.Log.Named("dispatch"),
	}
}

// OnComponent adds a handler for component interactions. Every handler sees
// every component interaction and ignores the ones it does not own.
func (d *Dispatcher) OnComponent(h ComponentHandler) {
	d.components = append(d.components, h)
}

// ParseCommand splits a prefixed message into its command name and
// arguments. args[0] is the name as typed.
func ParseCommand(prefix, content string) (name string, args []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	args = strings.Fields(strings.TrimPrefix(content, prefix))
	if len(args) == 0 {
		return "", nil, false
	}
	args[0] = strings.ToLower(args[0])
	return args[0], args, true
}

// AlwaysAvailable lists the commands a guild cannot switch off, directly or
// through their category.
var AlwaysAvailable = map[string]bool{"help": true, "enable": true, "disable": true}

// Blocked reports why a command may not run in a guild, or "" if it may.
func Blocked(set *bot.DisabledSet, name, category string) string {
	switch {
	case AlwaysAvailable[name]:
		return ""
	case set.Command(name):
		return fmt.Sprintf("Command `%s` is disabled in this server.", name)
	case set.Category(category):
		return fmt.Sprintf("Command `%s` is in category `%s` which is disabled.", name, category)
	}
	return ""
}

func (d *Dispatcher) disabledSet(guildID string) *bot.DisabledSet {
	if d.disabled == nil || guildID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), disabledLookupTimeout)
	defer cancel()

	set, err := d.disabled.DisabledSet(ctx, guildID)
	if err != nil {
		d.log.Warn("load disabled commands", zap.String("guild", guildID), zap.Error(err))
		return nil
	}
	return set
}

func (d *Dispatcher) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	name, args, ok := ParseCommand(d.prefix, m.Content)
	if !ok {
		return
	}
	cmd, ok := d.registry.GetCommand(name)
	if !ok || cmd.Handler == nil {
		return
	}

	if !d.limiter.Allow(m.Author.ID, cmd.Name) {
		retry := d.limiter.RetryAfter(m.Author.ID, cmd.Name).Round(time.Second)
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("You're using `%s` too fast. Try again in %s.", cmd.Name, retry))
		return
	}
	if msg := Blocked(d.disabledSet(m.GuildID), cmd.Name, cmd.Category); msg != "" {
		s.ChannelMessageSend(m.ChannelID, msg)
		return
	}

	d.log.Debug("command", zap.String("name", cmd.Name), zap.String("user", m.Author.ID), zap.String("guild", m.GuildID))
	cmd.Handler(d.bot, s, m, args)
}

func (d *Dispatcher) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		d.handleSlash(s, i)
	case discordgo.InteractionMessageComponent:
		for _, h := range d.components {
			h(s, i)
		}
	}
}

func (d *Dispatcher) handleSlash(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cmd, ok := d.registry.GetSlashCommand(i.ApplicationCommandData().Name)
	if !ok || cmd.Handler == nil {
		return
	}

	userID := ""
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	} else if i.User != nil {
		userID = i.User.ID
	}

	var msg string
	if !d.limiter.Allow(userID, cmd.Name) {
		msg = fmt.Sprintf("You're using `/%s` too fast. Try again in %s.", cmd.Name, d.limiter.RetryAfter(userID, cmd.Name).Round(time.Second))
	} else {
		msg = Blocked(d.disabledSet(i.GuildID), cmd.Name, cmd.Category)
	}
	if msg != "" {
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: msg, Flags: discordgo.MessageFlagsEphemeral},
		})
		if err != nil {
			d.log.Warn("respond to blocked command", zap.String("name", cmd.Name), zap.Error(err))
		}
		return
	}

	d.log.Debug("slash command", zap.String("name", cmd.Name), zap.String("user", userID), zap.String("guild", i.GuildID))
	cmd.Handler(d.bot, s, i)
}
