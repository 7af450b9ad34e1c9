package help

import (
	"fmt"

	"HelpBot/bot"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Component IDs
const (
	customIDPrefix = "help:"
	menuID         = customIDPrefix + "menu"
	previousID     = customIDPrefix + "previous"
	nextID         = customIDPrefix + "next"
)

func isHelpComponent(customID string) bool {
	switch customID {
	case menuID, previousID, nextID:
		return true
	}
	return false
}

// menuRow builds the category selector. ok is false when the guild has no
// selectable category.
func (c *Controller) menuRow(disabled *bot.DisabledSet) (row discordgo.ActionsRow, ok bool) {
	var options []discordgo.SelectMenuOption
	for _, cat := range c.categories.Enabled() {
		if disabled.Category(cat.Key) {
			continue
		}
		if len(options) == maxMenuOptions {
			c.log.Warn("help menu truncated", zap.Int("limit", maxMenuOptions), zap.String("dropped", cat.Key))
			break
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       cat.Name,
			Value:       cat.Key,
			Description: fmt.Sprintf("View commands in %s category", cat.Name),
			Emoji:       cat.ComponentEmoji(),
		})
	}
	if len(options) == 0 {
		return discordgo.ActionsRow{}, false
	}

	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    menuID,
				Placeholder: "Choose the command category",
				Options:     options,
			},
		},
	}, true
}

// linkRow holds the support, invite and vote buttons. ok is false when none
// of them has a URL.
func (c *Controller) linkRow(botUser *discordgo.User) (row discordgo.ActionsRow, ok bool) {
	var buttons []discordgo.MessageComponent
	if c.opts.SupportURL != "" {
		buttons = append(buttons, discordgo.Button{
			Label: "Support Server",
			Style: discordgo.LinkButton,
			URL:   c.opts.SupportURL,
		})
	}
	if botUser != nil && botUser.ID != "" {
		buttons = append(buttons, discordgo.Button{
			Label: "Invite Me",
			Style: discordgo.LinkButton,
			URL:   inviteURL(botUser.ID),
		})
	}
	if c.opts.VoteURL != "" {
		buttons = append(buttons, discordgo.Button{
			Label: "Vote Me",
			Style: discordgo.LinkButton,
			URL:   c.opts.VoteURL,
		})
	}
	if len(buttons) == 0 {
		return discordgo.ActionsRow{}, false
	}
	return discordgo.ActionsRow{Components: buttons}, true
}

func inviteURL(clientID string) string {
	return fmt.Sprintf("https://discord.com/api/oauth2/authorize?client_id=%s&permissions=8&scope=bot+applications.commands", clientID)
}

// navRow holds the previous and next buttons.
func navRow(enabled bool) discordgo.ActionsRow {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				CustomID: previousID,
				Label:    "Previous",
				Style:    discordgo.SecondaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "⬅️"},
				Disabled: !enabled,
			},
			discordgo.Button{
				CustomID: nextID,
				Label:    "Next",
				Style:    discordgo.SecondaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "➡️"},
				Disabled: !enabled,
			},
		},
	}
}

// disableAll returns copies of rows with every button and select menu disabled.
func disableAll(rows []discordgo.MessageComponent) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		out = append(out, disableComponent(row))
	}
	return out
}

func disableComponent(component discordgo.MessageComponent) discordgo.MessageComponent {
	switch v := component.(type) {
	case discordgo.ActionsRow:
		return discordgo.ActionsRow{Components: disableAll(v.Components)}
	case *discordgo.ActionsRow:
		return discordgo.ActionsRow{Components: disableAll(v.Components)}
	case discordgo.Button:
		v.Disabled = true
		return v
	case *discordgo.Button:
		b := *v
		b.Disabled = true
		return b
	case discordgo.SelectMenu:
		v.Disabled = true
		return v
	case *discordgo.SelectMenu:
		m := *v
		m.Disabled = true
		return m
	default:
		return component
	}
}
