package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"HelpBot/bot"
	"HelpBot/commands"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const processTimeout = 20 * time.Second

// Module registers the filter and generator commands. Every effect name is
// also a prefix alias, so ".sepia" works like ".filter sepia".
func Module() *commands.ModuleInfo {
	return &commands.ModuleInfo{
		Name:        "Image",
		Description: "Image filters and generators",
		Version:     "1.0.0",
		Category:    "IMAGE",
		Commands: []commands.CommandInfo{
			{
				Name:        "filter",
				Aliases:     FilterNames(),
				Description: "Apply a filter to an avatar, URL or attachment",
				Usage:       "<" + strings.Join(FilterNames(), "|") + "> [@member|url]",
				Handler:     FilterCommand,
			},
			{
				Name:        "generator",
				Aliases:     GeneratorNames(),
				Description: "Generate a new image from an avatar, URL or attachment",
				Usage:       "<" + strings.Join(GeneratorNames(), "|") + "> [@member|url]",
				Handler:     GeneratorCommand,
			},
		},
		SlashCommands: []commands.SlashCommandInfo{
			{
				Name:        "filter",
				Description: "Apply a filter to a user's avatar",
				Options:     slashOptions("filter", FilterNames()),
				Handler:     FilterSlash,
			},
			{
				Name:        "generator",
				Description: "Generate a new image from a user's avatar",
				Options:     slashOptions("generator", GeneratorNames()),
				Handler:     GeneratorSlash,
			},
		},
	}
}

// slashOptions puts the effect choices on the first option. The help menu
// reads them from there.
func slashOptions(kind string, names []string) []*discordgo.ApplicationCommandOption {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(names))
	for _, n := range names {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: n, Value: n})
	}
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: "The " + kind + " to use",
			Required:    true,
			Choices:     choices,
		},
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Whose avatar to use",
			Required:    false,
		},
	}
}

func FilterCommand(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	runPrefix(b, s, m, args, "filter", filters)
}

func GeneratorCommand(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	runPrefix(b, s, m, args, "generator", generators)
}

func FilterSlash(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	runSlash(b, s, i, filters)
}

func GeneratorSlash(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	runSlash(b, s, i, generators)
}

// parseInvocation works out the effect from the invoked name. args[0] is the
// name as typed: either the command itself, followed by the effect, or an
// effect alias.
func parseInvocation(command string, effects []namedEffect, args []string) (name string, rest []string, err error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("%w: empty invocation", ErrUnknownEffect)
	}
	invoked := strings.ToLower(args[0])
	if invoked != command {
		return invoked, args[1:], nil
	}
	if len(args) < 2 {
		return "", nil, fmt.Errorf("%w: choose one of %s", ErrUnknownEffect, strings.Join(names(effects), ", "))
	}
	return strings.ToLower(args[1]), args[2:], nil
}

func runPrefix(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string, command string, effects []namedEffect) {
	log := b.Log.Named("image")

	name, rest, err := parseInvocation(command, effects, args)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Usage: `%s <%s> [@member|url]`", command, strings.Join(names(effects), "|")))
		return
	}
	effect, err := lookupEffect(effects, name)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Unknown %s `%s`.", command, name))
		return
	}
	src, err := SourceFromMessage(m.Message, rest)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "I couldn't find an image to work on.")
		return
	}

	s.ChannelTyping(m.ChannelID)
	data, err := process(b, src, effect)
	if err != nil {
		log.Warn("process image", zap.String("effect", name), zap.String("source", src), zap.Error(err))
		s.ChannelMessageSend(m.ChannelID, failureText(err))
		return
	}

	_, err = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Files:     []*discordgo.File{pngFile(name, data)},
		Reference: m.Reference(),
	})
	if err != nil {
		log.Warn("send image", zap.String("channel", m.ChannelID), zap.Error(err))
	}
}

func runSlash(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, effects []namedEffect) {
	log := b.Log.Named("image")

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Warn("defer image command", zap.Error(err))
		return
	}

	data := i.ApplicationCommandData()
	var name string
	var target *discordgo.User
	for _, opt := range data.Options {
		switch opt.Name {
		case "name":
			name = opt.StringValue()
		case "user":
			target = resolvedUser(data, opt)
		}
	}

	params := &discordgo.WebhookParams{}
	if out, err := slashImage(b, i, effects, name, target); err != nil {
		log.Warn("process image", zap.String("effect", name), zap.Error(err))
		params.Content = failureText(err)
	} else {
		params.Files = []*discordgo.File{pngFile(name, out)}
	}
	if _, err := s.FollowupMessageCreate(i.Interaction, false, params); err != nil {
		log.Warn("send image", zap.Error(err))
	}
}

func slashImage(b *bot.Bot, i *discordgo.InteractionCreate, effects []namedEffect, name string, target *discordgo.User) ([]byte, error) {
	effect, err := lookupEffect(effects, name)
	if err != nil {
		return nil, err
	}
	invoker := i.User
	if i.Member != nil {
		invoker = i.Member.User
	}
	src, err := SourceFromUser(target, invoker)
	if err != nil {
		return nil, err
	}
	return process(b, src, effect)
}

func resolvedUser(data discordgo.ApplicationCommandInteractionData, opt *discordgo.ApplicationCommandInteractionDataOption) *discordgo.User {
	id, _ := opt.Value.(string)
	if data.Resolved != nil {
		if u, ok := data.Resolved.Users[id]; ok {
			return u
		}
	}
	if id == "" {
		return nil
	}
	return &discordgo.User{ID: id}
}

func process(b *bot.Bot, src string, effect Effect) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	img, err := Fetch(ctx, b.HTTP, src)
	if err != nil {
		return nil, err
	}
	return Render(img, effect)
}

func failureText(err error) string {
	switch {
	case errors.Is(err, ErrImageTooLarge):
		return "That image is too large."
	case errors.Is(err, ErrUnknownEffect):
		return "Unknown effect."
	case errors.Is(err, ErrNoImage):
		return "I couldn't find an image to work on."
	case errors.Is(err, bot.ErrPrivateAddress):
		return "I can only fetch images from public addresses."
	}
	return "Sorry, I couldn't process that image."
}

func pngFile(name string, data []byte) *discordgo.File {
	return &discordgo.File{
		Name:        name + ".png",
		ContentType: "image/png",
		Reader:      bytes.NewReader(data),
	}
}
