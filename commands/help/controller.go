package help

import (
	"context"
	"errors"
	"time"

	"HelpBot/bot"
	"HelpBot/commands"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	// CommandsPerPage bounds the entries of one help page.
	CommandsPerPage = 15

	DefaultIdleTimeout = 30 * time.Second
	DefaultMaxLifetime = 5 * time.Minute

	embedColor = 0x068ADD

	// select menus accept at most 25 options
	maxMenuOptions = 25

	lookupTimeout = 5 * time.Second
)

// Mode tells how the help command was invoked. Both modes list the same
// commands but format them differently.
type Mode int

const (
	ModeSlash Mode = iota
	ModePrefix
)

func (m Mode) String() string {
	if m == ModePrefix {
		return "prefix"
	}
	return "slash"
}

// Invocation carries what the controller needs to know about one help call.
type Invocation struct {
	Mode    Mode
	Prefix  string
	GuildID string
	BotUser *discordgo.User
}

// Payload is a renderable help message: embeds plus up to two control rows.
type Payload struct {
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent

	// what was disabled in the guild when the payload was rendered
	disabled *bot.DisabledSet
}

// Transport is the part of *discordgo.Session the interactive menu uses.
type Transport interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DisabledLookup reports what a guild has switched off.
type DisabledLookup interface {
	DisabledSet(ctx context.Context, guildID string) (*bot.DisabledSet, error)
}

type Options struct {
	IdleTimeout time.Duration
	MaxLifetime time.Duration

	// Prefix is the text command prefix shown in prefix mode.
	Prefix string

	// ImageCategory is rendered as one consolidated page instead of being
	// paginated. Its filter and generator choices come from FilterCommand
	// and GeneratorCommand.
	ImageCategory    string
	FilterCommand    string
	GeneratorCommand string

	SupportURL string
	VoteURL    string
	BannerURL  string

	Clock Clock
}

func (o Options) withDefaults() Options {
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = DefaultIdleTimeout
	}
	if o.MaxLifetime <= 0 {
		o.MaxLifetime = DefaultMaxLifetime
	}
	if o.Prefix == "" {
		o.Prefix = "."
	}
	if o.ImageCategory == "" {
		o.ImageCategory = "IMAGE"
	}
	if o.FilterCommand == "" {
		o.FilterCommand = "filter"
	}
	if o.GeneratorCommand == "" {
		o.GeneratorCommand = "generator"
	}
	if o.Clock == nil {
		o.Clock = RealClock{}
	}
	return o
}

// Controller renders the help menu and drives its interactive sessions.
type Controller struct {
	registry   *commands.Registry
	categories *commands.CategoryRegistry
	disabled   DisabledLookup
	opts       Options
	log        *zap.Logger
	sessions   *sessionManager
}

// NewController wires a controller. disabled may be nil when no per-guild
// settings exist.
func NewController(registry *commands.Registry, categories *commands.CategoryRegistry, disabled DisabledLookup, log *zap.Logger, opts Options) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		registry:   registry,
		categories: categories,
		disabled:   disabled,
		opts:       opts.withDefaults(),
		log:        log,
		sessions:   newSessionManager(),
	}
}

// Validate reports configuration problems that would otherwise only show up
// when a user opens the affected category.
func (c *Controller) Validate() error {
	cat, err := c.categories.Get(c.opts.ImageCategory)
	if err != nil || !cat.IsEnabled() {
		return nil
	}
	var errs []error
	for _, name := range []string{c.opts.FilterCommand, c.opts.GeneratorCommand} {
		if _, err := c.choiceNames(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Shutdown ends every live session, freezing their menus.
func (c *Controller) Shutdown() {
	for _, s := range c.sessions.all() {
		s.Stop()
	}
}

// ActiveSessions returns the number of live menus.
func (c *Controller) ActiveSessions() int {
	return c.sessions.len()
}

func (c *Controller) disabledSet(guildID string) *bot.DisabledSet {
	if c.disabled == nil || guildID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	set, err := c.disabled.DisabledSet(ctx, guildID)
	if err != nil {
		c.log.Warn("load disabled commands", zap.String("guild", guildID), zap.Error(err))
		return nil
	}
	return set
}
