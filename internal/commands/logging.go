package commands

import (
	"strings"

	"github.com/goliatone/go-cms-workflow/internal/logging"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
)

const moduleRoot = "workflow.commands"

// CommandLogger returns the logger for the named command module.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.ModuleLogger(provider, moduleRoot+"."+name), map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
