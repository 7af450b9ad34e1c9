package help

import (
	"errors"
	"fmt"
	"strings"

	"HelpBot/bot"
	"HelpBot/commands"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// ErrChoiceSourceMissing means the image category cannot list its filters or
// generators because the slash command holding the choices is absent.
var ErrChoiceSourceMissing = errors.New("choice source command missing")

const (
	noCommandsText       = "No commands in this category"
	disabledCategoryText = "This category is disabled in this server"
	brokenCategoryText   = "This category is misconfigured and cannot be shown right now."
)

// CategoryPages renders the help pages of one category for the given
// invocation. Commands in disabled are left out.
func (c *Controller) CategoryPages(key string, inv Invocation, disabled *bot.DisabledSet) ([]*discordgo.MessageEmbed, error) {
	cat, err := c.categories.Get(key)
	if err != nil {
		return nil, err
	}

	if disabled.Category(cat.Key) {
		return []*discordgo.MessageEmbed{textPage(cat, disabledCategoryText)}, nil
	}

	var cmds []commands.CommandSummary
	if inv.Mode == ModePrefix {
		cmds = c.registry.CommandsIn(cat.Key)
	} else {
		cmds = c.registry.SlashCommandsIn(cat.Key)
	}
	cmds = withoutDisabled(cmds, disabled)

	if strings.EqualFold(cat.Key, c.opts.ImageCategory) {
		page, err := c.imagePage(cat, cmds, inv, disabled)
		if err != nil {
			return nil, err
		}
		return []*discordgo.MessageEmbed{page}, nil
	}

	if len(cmds) == 0 {
		return []*discordgo.MessageEmbed{textPage(cat, noCommandsText)}, nil
	}

	chunks := chunk(cmds, CommandsPerPage)
	pages := make([]*discordgo.MessageEmbed, 0, len(chunks))
	for i, group := range chunks {
		entries := make([]string, 0, len(group))
		for _, cmd := range group {
			entries = append(entries, formatEntry(cmd, inv))
		}

		page := categoryEmbed(cat)
		page.Description = strings.Join(entries, "\n")
		page.Footer = &discordgo.MessageEmbedFooter{Text: pageFooter(i, len(chunks), inv)}
		pages = append(pages, page)
	}
	return pages, nil
}

// pagesFor never fails: configuration errors are logged and shown as a
// single explanatory page.
func (c *Controller) pagesFor(key string, inv Invocation, disabled *bot.DisabledSet) []*discordgo.MessageEmbed {
	pages, err := c.CategoryPages(key, inv, disabled)
	if err == nil {
		return pages
	}

	c.log.Error("render help category", zap.String("category", key), zap.Stringer("mode", inv.Mode), zap.Error(err))
	cat, lookupErr := c.categories.Get(key)
	if lookupErr != nil {
		cat = commands.Category{Key: strings.ToUpper(key), Name: strings.ToUpper(key)}
	}
	return []*discordgo.MessageEmbed{textPage(cat, brokenCategoryText)}
}

func (c *Controller) imagePage(cat commands.Category, cmds []commands.CommandSummary, inv Invocation, disabled *bot.DisabledSet) (*discordgo.MessageEmbed, error) {
	var b strings.Builder

	if inv.Mode == ModePrefix {
		var aliases []string
		for _, cmd := range cmds {
			for _, alias := range cmd.Aliases {
				aliases = append(aliases, "`"+alias+"`")
			}
		}
		b.WriteString(strings.Join(aliases, ", "))
		b.WriteString("\n\nYou can use these image commands in following formats\n")
		fmt.Fprintf(&b, "**%scmd:** Picks message authors avatar as image\n", inv.Prefix)
		fmt.Fprintf(&b, "**%scmd <@member>:** Picks mentioned members avatar as image\n", inv.Prefix)
		fmt.Fprintf(&b, "**%scmd <url>:** Picks image from provided URL\n", inv.Prefix)
		fmt.Fprintf(&b, "**%scmd [attachment]:** Picks attachment image", inv.Prefix)
	} else {
		for _, cmd := range cmds {
			fmt.Fprintf(&b, "`/%s` ", cmd.Name)
		}
		for _, list := range []struct{ title, command string }{
			{"Available Filters", c.opts.FilterCommand},
			{"Available Generators", c.opts.GeneratorCommand},
		} {
			// a disabled source command hides its choices too
			if disabled.Command(list.command) {
				continue
			}
			names, err := c.choiceNames(list.command)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&b, "\n\n**%s:**\n%s", list.title, strings.Join(names, ", "))
		}
	}

	if b.Len() == 0 {
		return textPage(cat, noCommandsText), nil
	}
	page := categoryEmbed(cat)
	page.Description = b.String()
	return page, nil
}

// choiceNames lists the choices of the first option of a slash command.
func (c *Controller) choiceNames(name string) ([]string, error) {
	cmd, ok := c.registry.GetSlashCommand(name)
	if !ok {
		return nil, fmt.Errorf("%w: /%s is not registered", ErrChoiceSourceMissing, name)
	}
	if len(cmd.Options) == 0 || len(cmd.Options[0].Choices) == 0 {
		return nil, fmt.Errorf("%w: /%s has no choices on its first option", ErrChoiceSourceMissing, name)
	}

	names := make([]string, 0, len(cmd.Options[0].Choices))
	for _, choice := range cmd.Options[0].Choices {
		names = append(names, choice.Name)
	}
	return names, nil
}

func formatEntry(cmd commands.CommandSummary, inv Invocation) string {
	var b strings.Builder
	if inv.Mode == ModePrefix {
		fmt.Fprintf(&b, "❯ `%s%s`\n• %s\n", inv.Prefix, cmd.Name, cmd.Description)
		if len(cmd.Aliases) > 0 {
			fmt.Fprintf(&b, "❯ **Aliases**: %s\n", strings.Join(cmd.Aliases, ", "))
		}
		if cmd.Usage != "" {
			fmt.Fprintf(&b, "❯ **Usage**: `%s%s %s`\n", inv.Prefix, cmd.Name, cmd.Usage)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "❯ `/%s`\n• %s\n", cmd.Name, cmd.Description)
	if n := len(cmd.SubCommandNames); n > 0 {
		fmt.Fprintf(&b, "❯ **SubCommands [%d]**: %s\n", n, strings.Join(cmd.SubCommandNames, ", "))
	}
	return b.String()
}

func pageFooter(index, total int, inv Invocation) string {
	text := fmt.Sprintf("page %d of %d", index+1, total)
	if inv.Mode == ModePrefix {
		text += fmt.Sprintf(" | Type %shelp <command> for more command information", inv.Prefix)
	}
	return text
}

func categoryEmbed(cat commands.Category) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color:  embedColor,
		Author: &discordgo.MessageEmbedAuthor{Name: cat.Name + " Commands"},
	}
	if cat.Image != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: cat.Image}
	}
	return embed
}

func textPage(cat commands.Category, text string) *discordgo.MessageEmbed {
	page := categoryEmbed(cat)
	page.Description = text
	return page
}

func withoutDisabled(cmds []commands.CommandSummary, disabled *bot.DisabledSet) []commands.CommandSummary {
	if disabled == nil {
		return cmds
	}
	out := cmds[:0:0]
	for _, cmd := range cmds {
		if !disabled.Command(cmd.Name) {
			out = append(out, cmd)
		}
	}
	return out
}

// chunk splits items into consecutive groups of at most size elements.
func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for len(items) > 0 {
		n := min(size, len(items))
		out = append(out, items[:n:n])
		items = items[n:]
	}
	return out
}
