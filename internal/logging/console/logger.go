// Package console writes workflow log entries as single text lines:
//
//	<time> <LEVEL> <module> [<doc_type> <workflow_guid> <locale>] <msg> key=value...
//
// The bracketed doc segment only appears when WithDocContext fields are set.
package console

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-cms-workflow/internal/logging"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
)

type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// ParseLevel maps a configured level name to a Level. Blank and unknown
// names are rejected.
func ParseLevel(name string) (Level, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "WARNING" {
		name = "WARN"
	}
	for i, candidate := range levelNames {
		if candidate == name {
			return Level(i), true
		}
	}
	return LevelInfo, false
}

// Options configures the provider. Level defaults to debug when blank or
// unknown. Focus selects modules with logging.MatchModule.
type Options struct {
	Writer io.Writer
	Clock  func() time.Time
	Level  string
	Focus  []string
}

type provider struct {
	mu       sync.Mutex
	out      io.Writer
	clock    func() time.Time
	minLevel Level
	focus    []string
}

// NewProvider builds a provider writing to Options.Writer, or stdout.
func NewProvider(opts Options) interfaces.LoggerProvider {
	p := &provider{out: opts.Writer, clock: opts.Clock, minLevel: LevelDebug, focus: slices.Clone(opts.Focus)}
	if p.out == nil {
		p.out = os.Stdout
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if level, ok := ParseLevel(opts.Level); ok {
		p.minLevel = level
	}
	return p
}

// GetLogger returns a no-op logger for modules outside the focus.
func (p *provider) GetLogger(name string) interfaces.Logger {
	if !logging.MatchModule(p.focus, name) {
		return logging.NoOp()
	}
	return &entryLogger{provider: p, name: name}
}

type entryLogger struct {
	provider *provider
	name     string
	fields   map[string]any
	ctx      context.Context
}

var (
	_ interfaces.Logger       = (*entryLogger)(nil)
	_ interfaces.FieldsLogger = (*entryLogger)(nil)
)

func (l *entryLogger) Trace(msg string, args ...any) { l.write(LevelTrace, msg, args) }
func (l *entryLogger) Debug(msg string, args ...any) { l.write(LevelDebug, msg, args) }
func (l *entryLogger) Info(msg string, args ...any)  { l.write(LevelInfo, msg, args) }
func (l *entryLogger) Warn(msg string, args ...any)  { l.write(LevelWarn, msg, args) }
func (l *entryLogger) Error(msg string, args ...any) { l.write(LevelError, msg, args) }
func (l *entryLogger) Fatal(msg string, args ...any) { l.write(LevelFatal, msg, args) }

func (l *entryLogger) WithFields(fields map[string]any) interfaces.Logger {
	child := *l
	child.fields = maps.Clone(l.fields)
	if child.fields == nil {
		child.fields = make(map[string]any, len(fields))
	}
	maps.Copy(child.fields, fields)
	return &child
}

func (l *entryLogger) WithContext(ctx context.Context) interfaces.Logger {
	child := *l
	child.ctx = ctx
	return &child
}

func (l *entryLogger) write(level Level, msg string, args []any) {
	if level < l.provider.minLevel {
		return
	}

	fields := maps.Clone(l.fields)
	if fields == nil {
		fields = map[string]any{}
	}
	maps.Copy(fields, logging.ContextFields(l.ctx))
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg" + strconv.Itoa(i)
		}
		if i+1 < len(args) {
			fields[key] = args[i+1]
		} else {
			fields["arg"+strconv.Itoa(i)] = args[i]
		}
	}

	line := l.render(level, msg, fields)

	l.provider.mu.Lock()
	defer l.provider.mu.Unlock()
	_, _ = io.WriteString(l.provider.out, line)
}

func (l *entryLogger) render(level Level, msg string, fields map[string]any) string {
	var b strings.Builder
	b.WriteString(l.provider.clock().UTC().Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')

	module := l.name
	if value, ok := fields[logging.FieldModule].(string); ok && value != "" {
		module = value
	}
	delete(fields, logging.FieldModule)
	if module == "" {
		module = "-"
	}
	b.WriteString(module)

	doc := docSegment(fields)
	if doc != "" {
		b.WriteString(" [")
		b.WriteString(doc)
		b.WriteByte(']')
	}

	b.WriteByte(' ')
	b.WriteString(msg)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(renderValue(fields[key]))
	}
	b.WriteByte('\n')
	return b.String()
}

// docSegment removes the doc context fields and joins them with "-" for
// the missing ones. It returns "" when none is set.
func docSegment(fields map[string]any) string {
	parts := make([]string, 0, 3)
	found := false
	for _, key := range []string{logging.FieldDocType, logging.FieldWorkflowGuid, logging.FieldLocale} {
		value, ok := fields[key]
		delete(fields, key)
		text := ""
		if ok {
			text = fmt.Sprint(value)
		}
		if text == "" {
			text = "-"
		} else {
			found = true
		}
		parts = append(parts, text)
	}
	if !found {
		return ""
	}
	return strings.Join(parts, " ")
}

func renderValue(value any) string {
	var text string
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		text = v
	case time.Time:
		text = v.UTC().Format(time.RFC3339Nano)
	case error:
		text = v.Error()
	default:
		text = fmt.Sprint(v)
	}
	if text == "" || strings.ContainsAny(text, " \t\n\"=") {
		return strconv.Quote(text)
	}
	return text
}
