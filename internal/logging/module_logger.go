package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
)

const (
	rootModule          = "workflow"
	localesModule       = "workflow.locales"
	identityModule      = "workflow.identity"
	commitsModule       = "workflow.commits"
	sessionBridgeModule = "workflow.sessionbridge"
	httpModule          = "workflow.http"
)

// Field names shared by every provider. Console output renders the doc
// fields as a fixed segment ahead of the message.
const (
	FieldModule       = "module"
	FieldDocType      = "doc_type"
	FieldWorkflowGuid = "workflow_guid"
	FieldLocale       = "locale"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		FieldModule: module,
	})
}

// LocalesLogger is used while composing the locale topology and prefixes.
func LocalesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, localesModule)
}

// IdentityLogger is used by the save hooks assigning locales and guids.
func IdentityLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, identityModule)
}

// CommitsLogger is used by the commit ledger.
func CommitsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commitsModule)
}

// SessionBridgeLogger is used by the cross domain session bridge.
func SessionBridgeLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sessionBridgeModule)
}

// HTTPLogger is used by the workflowd server.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// WithDocContext adds the doc type, workflowGuid and locale of a doc.
// Empty values are ignored.
func WithDocContext(logger interfaces.Logger, docType, workflowGuid, locale string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(docType); trimmed != "" {
		fields[FieldDocType] = trimmed
	}
	if trimmed := strings.TrimSpace(workflowGuid); trimmed != "" {
		fields[FieldWorkflowGuid] = trimmed
	}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields[FieldLocale] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
