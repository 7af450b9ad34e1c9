package main

import (
	"fmt"
	"io"
	"strings"

	"HelpBot/commands/help"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	accent = lipgloss.Color("#068ADD")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	footerStyle = lipgloss.NewStyle().Faint(true)
	frameStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			Width(72)
	disabledStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the help categories in menu order",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, categories, _, err := loadRegistry(categoriesFile, ".")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, cat := range categories.All() {
			line := fmt.Sprintf("%-10s %s", cat.Key, cat.Label())
			if !cat.IsEnabled() {
				line = disabledStyle.Render(line) + " (disabled)"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var (
	pagesMode   string
	pagesPrefix string
)

var pagesCmd = &cobra.Command{
	Use:   "pages <category>",
	Short: "Render the help pages of a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runPages,
}

func init() {
	pagesCmd.Flags().StringVar(&pagesMode, "mode", "slash", "Invocation mode: slash or prefix")
	pagesCmd.Flags().StringVar(&pagesPrefix, "prefix", ".", "Prefix shown in prefix mode")
}

func runPages(cmd *cobra.Command, args []string) error {
	inv := help.Invocation{Mode: help.ModeSlash, Prefix: "/"}
	switch strings.ToLower(pagesMode) {
	case "slash":
	case "prefix":
		inv = help.Invocation{Mode: help.ModePrefix, Prefix: pagesPrefix}
	default:
		return fmt.Errorf("unknown mode %q, want slash or prefix", pagesMode)
	}

	_, _, ctrl, err := loadRegistry(categoriesFile, pagesPrefix)
	if err != nil {
		return err
	}
	pages, err := ctrl.CategoryPages(args[0], inv, nil)
	if err != nil {
		return err
	}
	return writePages(cmd.OutOrStdout(), pages)
}

func writePages(w io.Writer, pages []*discordgo.MessageEmbed) error {
	for _, page := range pages {
		if _, err := fmt.Fprintln(w, renderPage(page)); err != nil {
			return err
		}
	}
	return nil
}

// renderPage draws an embed as a framed terminal card. Discord markdown is
// shown as is.
func renderPage(page *discordgo.MessageEmbed) string {
	var parts []string
	if page.Author != nil && page.Author.Name != "" {
		parts = append(parts, titleStyle.Render(page.Author.Name))
	}
	if page.Title != "" {
		parts = append(parts, titleStyle.Render(page.Title))
	}
	if page.Description != "" {
		parts = append(parts, strings.TrimRight(page.Description, "\n"))
	}
	for _, field := range page.Fields {
		parts = append(parts, titleStyle.Render(field.Name)+"\n"+field.Value)
	}
	if page.Footer != nil && page.Footer.Text != "" {
		parts = append(parts, footerStyle.Render(page.Footer.Text))
	}
	return frameStyle.Render(strings.Join(parts, "\n\n"))
}
