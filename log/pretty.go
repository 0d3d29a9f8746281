package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// role names the part of a record a style applies to.
type role int

const (
	roleKey role = iota
	roleStr
	roleNum
	roleTrue
	roleFalse
	roleNull
	roleDur
	roleTime
	roleCount
)

// palette holds the styles used to colorize pretty output.
// A nil *palette renders plain text.
type palette struct {
	styles [roleCount]lipgloss.Style
	levels map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		styles: [roleCount]lipgloss.Style{
			roleKey:   fg("8"),
			roleStr:   fg("6"),
			roleNum:   fg("3"),
			roleTrue:  fg("2"),
			roleFalse: fg("1"),
			roleNull:  fg("8"),
			roleDur:   fg("5"),
			roleTime:  fg("4"),
		},
		levels: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("8"),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2").Bold(true),
			slog.LevelWarn:         fg("3").Bold(true),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

func (p *palette) paint(r role, text string) string {
	if p == nil {
		return text
	}

	return p.styles[r].Render(text)
}

func (p *palette) level(l slog.Level, text string) string {
	if p == nil {
		return text
	}

	switch {
	case l >= slog.LevelError:
		l = slog.LevelError
	case l >= slog.LevelWarn:
		l = slog.LevelWarn
	case l >= slog.LevelInfo:
		l = slog.LevelInfo
	case l >= slog.LevelDebug:
		l = slog.LevelDebug
	default:
		l = slog.Level(LevelTrace)
	}

	return p.levels[l].Render(text)
}

// field is a resolved attribute. Groups carry their members in fields.
type field struct {
	key    string
	value  slog.Value
	fields []field
	group  bool
}

func (f field) isGroup() bool { return f.group }

// makeFields resolves attrs into fields, dropping empty attributes and
// inlining groups with empty keys.
func makeFields(attrs []slog.Attr) []field {
	out := make([]field, 0, len(attrs))

	for _, a := range attrs {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			continue
		}

		if a.Value.Kind() != slog.KindGroup {
			out = append(out, field{key: a.Key, value: a.Value})

			continue
		}

		members := makeFields(a.Value.Group())
		if len(members) == 0 {
			continue
		}

		if a.Key == "" {
			out = append(out, members...)

			continue
		}

		out = append(out, field{key: a.Key, fields: members, group: true})
	}

	return out
}

// nest places fields under the group path.
func nest(groups []string, fields []field) []field {
	for i := len(groups) - 1; i >= 0; i-- {
		if len(fields) == 0 {
			return nil
		}

		fields = []field{{key: groups[i], fields: fields, group: true}}
	}

	return fields
}

// merge appends src to dst, combining groups that share a key.
func merge(dst, src []field) []field {
	for _, f := range src {
		i := -1

		if f.isGroup() {
			for j := range dst {
				if dst[j].isGroup() && dst[j].key == f.key {
					i = j

					break
				}
			}
		}

		if i < 0 {
			dst = append(dst, f)

			continue
		}

		dst[i].fields = merge(slices.Clone(dst[i].fields), f.fields)
	}

	return dst
}

// prettyHandler implements a human-oriented slog.Handler writing either
// "key=value" text lines or indented JSON objects.
type prettyHandler struct {
	opts    slog.HandlerOptions
	mu      *sync.Mutex
	w       io.Writer
	palette *palette
	json    bool
	fields  []field
	groups  []string
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	p *palette,
	json bool,
) *prettyHandler {
	return &prettyHandler{
		opts:    *opts,
		mu:      &sync.Mutex{},
		w:       w,
		palette: p,
		json:    json,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	header := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		header = append(header, h.replace(slog.Time(slog.TimeKey, r.Time)))
	}

	header = append(header, h.replace(slog.Any(slog.LevelKey, r.Level)))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			header = append(header,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	header = append(header, slog.String(slog.MessageKey, r.Message))

	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	fields := makeFields(header)
	fields = merge(fields, h.fields)
	fields = merge(fields, nest(h.groups, makeFields(attrs)))

	buf := new(bytes.Buffer)

	if h.json {
		h.writeObject(buf, fields, r.Level, 1)
	} else {
		h.writeText(buf, "", fields, r.Level)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.fields = merge(slices.Clone(h.fields), nest(h.groups, makeFields(attrs)))

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// writeText writes fields as space-separated key=value pairs, joining
// group keys with dots.
func (h *prettyHandler) writeText(
	buf *bytes.Buffer,
	prefix string,
	fields []field,
	level slog.Level,
) {
	for _, f := range fields {
		if f.isGroup() {
			h.writeText(buf, prefix+f.key+".", f.fields, level)

			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.palette.paint(roleKey, prefix+f.key))
		buf.WriteByte('=')

		if prefix == "" && f.key == slog.LevelKey {
			buf.WriteString(h.palette.level(level, f.value.String()))

			continue
		}

		buf.WriteString(h.textValue(f.value))
	}
}

func (h *prettyHandler) textValue(v slog.Value) string {
	p := h.palette

	switch v.Kind() {
	case slog.KindString:
		return p.paint(roleStr, v.String())

	case slog.KindInt64:
		return p.paint(roleNum, strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return p.paint(roleNum, strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return p.paint(roleNum, strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return p.paint(roleTrue, "true")
		}

		return p.paint(roleFalse, "false")

	case slog.KindDuration:
		return p.paint(roleDur, v.Duration().String())

	case slog.KindTime:
		return p.paint(roleTime, v.Time().Format(time.RFC3339))

	default:
		if v.Any() == nil {
			return p.paint(roleNull, "<nil>")
		}

		return p.paint(roleStr, v.String())
	}
}

// writeObject writes fields as an indented JSON object.
func (h *prettyHandler) writeObject(
	buf *bytes.Buffer,
	fields []field,
	level slog.Level,
	depth int,
) {
	pad := bytes.Repeat([]byte("  "), depth)

	buf.WriteString("{\n")

	for i, f := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.Write(pad)
		buf.WriteString(h.palette.paint(roleKey, quote(f.key)))
		buf.WriteString(": ")

		switch {
		case f.isGroup():
			h.writeObject(buf, f.fields, level, depth+1)

		case depth == 1 && f.key == slog.LevelKey:
			buf.WriteString(h.palette.level(level, quote(f.value.String())))

		default:
			buf.WriteString(h.jsonValue(f.value))
		}
	}

	buf.WriteByte('\n')
	buf.Write(pad[:len(pad)-2])
	buf.WriteByte('}')
}

func (h *prettyHandler) jsonValue(v slog.Value) string {
	p := h.palette

	switch v.Kind() {
	case slog.KindString:
		return p.paint(roleStr, quote(v.String()))

	case slog.KindInt64:
		return p.paint(roleNum, strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return p.paint(roleNum, strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return p.paint(roleNum, strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return p.paint(roleTrue, "true")
		}

		return p.paint(roleFalse, "false")

	case slog.KindDuration:
		return p.paint(roleDur, quote(v.Duration().String()))

	case slog.KindTime:
		return p.paint(roleTime, quote(v.Time().Format(time.RFC3339Nano)))

	default:
		if v.Any() == nil {
			return p.paint(roleNull, "null")
		}

		if err, ok := v.Any().(error); ok {
			return p.paint(roleStr, quote(err.Error()))
		}

		data, err := json.Marshal(v.Any())
		if err != nil {
			return p.paint(roleStr, quote(v.String()))
		}

		return p.paint(roleStr, string(data))
	}
}

func quote(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}

	return string(data)
}
