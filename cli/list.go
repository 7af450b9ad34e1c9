package main

import (
	"fmt"
	"strings"

	"HelpBot/commands"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List modules and their commands",
	Long:  `Display every module the bot registers together with its prefix and slash commands.`,
	RunE:  runList,
}

var (
	listModules  bool
	filterModule string
)

func init() {
	listCmd.Flags().BoolVarP(&listModules, "modules", "m", false, "List only modules")
	listCmd.Flags().StringVarP(&filterModule, "filter", "f", "", "Filter by module name")
}

func runList(cmd *cobra.Command, args []string) error {
	registry, _, _, err := loadRegistry(categoriesFile, ".")
	if err != nil {
		return err
	}

	var modules []*commands.ModuleInfo
	for _, module := range registry.Modules() {
		if filterModule == "" || strings.EqualFold(module.Name, filterModule) {
			modules = append(modules, module)
		}
	}
	if len(modules) == 0 {
		return fmt.Errorf("module %q not found", filterModule)
	}

	out := cmd.OutOrStdout()
	for _, module := range modules {
		fmt.Fprintf(out, "📦 %s v%s [%s]\n", module.Name, module.Version, module.Category)
		fmt.Fprintf(out, "    %s\n", module.Description)
		if listModules {
			continue
		}
		for _, c := range module.Commands {
			line := "    • ." + c.Name
			if len(c.Aliases) > 0 {
				line += " (" + strings.Join(c.Aliases, ", ") + ")"
			}
			fmt.Fprintf(out, "%s - %s\n", line, c.Description)
		}
		for _, c := range module.SlashCommands {
			fmt.Fprintf(out, "    • /%s - %s\n", c.Name, c.Description)
		}
	}
	return nil
}
