package help

import (
	"fmt"
	"runtime"
	"strings"

	"HelpBot/bot"
	"HelpBot/commands"

	"github.com/bwmarrin/discordgo"
)

// RenderInitialMenu composes the category overview with the category
// selector and the link buttons. It sends nothing. Interactive reports whether
// the payload carries a selector a session can be attached to.
func (c *Controller) RenderInitialMenu(inv Invocation) (payload *Payload, interactive bool) {
	disabled := c.disabledSet(inv.GuildID)

	payload = &Payload{
		Embeds:   []*discordgo.MessageEmbed{c.summaryEmbed(inv, disabled)},
		disabled: disabled,
	}
	if row, ok := c.menuRow(disabled); ok {
		payload.Components = append(payload.Components, row)
		interactive = true
	}
	if row, ok := c.linkRow(inv.BotUser); ok {
		payload.Components = append(payload.Components, row)
	}
	return payload, interactive
}

func (c *Controller) summaryEmbed(inv Invocation, disabled *bot.DisabledSet) *discordgo.MessageEmbed {
	name := "This bot"
	embed := &discordgo.MessageEmbed{Color: embedColor}
	if inv.BotUser != nil {
		name = inv.BotUser.Username
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: inv.BotUser.AvatarURL("")}
	}
	if c.opts.BannerURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: c.opts.BannerURL}
	}

	prefix := "/"
	if inv.Mode == ModePrefix {
		prefix = inv.Prefix
	}
	embed.Description = fmt.Sprintf("**%s is here to help.**\n"+
		"> Pick a category from the menu below to browse its commands.\n\n"+
		"__**BOT INFO**__\n"+
		"> Prefix: `%s`\n"+
		"> discordgo Version: `v%s`\n"+
		"> Running on `%s`",
		name, prefix, discordgo.VERSION, runtime.Version())

	var cats []commands.Category
	for _, cat := range c.categories.Enabled() {
		if !disabled.Category(cat.Key) {
			cats = append(cats, cat)
		}
	}
	embed.Fields = featureFields(cats)
	return embed
}

// featureFields splits the category list into two inline columns.
func featureFields(cats []commands.Category) []*discordgo.MessageEmbedField {
	if len(cats) == 0 {
		return nil
	}

	half := (len(cats) + 1) / 2
	columns := [][]commands.Category{cats[:half], cats[half:]}

	var fields []*discordgo.MessageEmbedField
	start := 1
	for _, column := range columns {
		if len(column) == 0 {
			continue
		}
		lines := make([]string, 0, len(column))
		for _, cat := range column {
			lines = append(lines, cat.Label())
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("__**Features [%d-%d]**__", start, start+len(column)-1),
			Value:  ">>> " + strings.Join(lines, "\n"),
			Inline: true,
		})
		start += len(column)
	}
	return fields
}
