package main

import (
	"HelpBot/commands"
	"HelpBot/commands/admin"
	"HelpBot/commands/general"
	"HelpBot/commands/help"
	"HelpBot/commands/imaging"

	"go.uber.org/zap"
)

// loadRegistry assembles the modules exactly as the bot does. There is no
// database, so nothing is disabled.
func loadRegistry(path, prefix string) (*commands.Registry, *commands.CategoryRegistry, *help.Controller, error) {
	categories, err := commands.LoadCategories(path)
	if err != nil {
		return nil, nil, nil, err
	}

	registry := commands.NewRegistry()
	ctrl := help.NewController(registry, categories, nil, zap.NewNop(), help.Options{Prefix: prefix})

	for _, module := range []*commands.ModuleInfo{
		help.Module(ctrl),
		general.Module(),
		imaging.Module(),
		admin.Module(admin.NewToggler(registry, categories)),
	} {
		if err := registry.RegisterModule(module); err != nil {
			return nil, nil, nil, err
		}
	}
	return registry, categories, ctrl, nil
}
