package relog

import (
	"strconv"
	"strings"
	"time"
)

// Format is a bitmask describing which fields a rendered record carries.
type Format uint8

// Nano is a sentinel: the raw message only, no decoration at all. It
// must be checked by equality (f == Nano), never by bit-AND, since its
// bit pattern is zero.
const Nano Format = 0

const (
	Date          Format = 1 << iota // 1
	Time                             // 2
	Microseconds                     // 4
	LongFileName                     // 8
	ShortFileName                    // 16
	LevelFlag                        // 32
)

// DefaultFormatter is the built-in record template. A logger's formatter
// field is "the default" iff it equals this string exactly.
const DefaultFormatter = "{level}{time} {file}:{message}\n"

// AttrFormat holds user-supplied overrides for how the level, timestamp
// and message body are rendered. A nil field selects the built-in
// behavior; this mirrors the teacher's convention of using a nil
// function pointer to mean "use the default path cheaply".
type AttrFormat struct {
	LevelRender       func(Level) string
	TimeRender        func() (date, clock, micros string)
	BodyRenderConsole func(string) string
	BodyRenderFile    func(string) string
}

// renderRecord assembles one log line from the resolved format bitmask,
// formatter template, level, captured file/line and message body. This
// is the Go rendition of the original implementation's log_fmt/
// parse_and_format_log pair.
func renderRecord(f Format, formatter string, lvl Level, file string, line int, msg string, attr *AttrFormat) string {
	if f == Nano {
		return msg
	}

	var levelFlag, timePart, filePart string

	if f&LevelFlag != 0 {
		if attr != nil && attr.LevelRender != nil {
			levelFlag = attr.LevelRender(lvl)
		} else {
			levelFlag = defaultLevelTag(lvl)
		}
	}

	if f&(Date|Time|Microseconds) != 0 {
		var datePart, clockPart, microPart string
		if attr != nil && attr.TimeRender != nil {
			datePart, clockPart, microPart = attr.TimeRender()
		} else {
			datePart, clockPart, microPart = defaultTimeParts(f)
		}
		if f&Date != 0 {
			timePart = datePart
		}
		if f&(Time|Microseconds) != 0 {
			if len(timePart) > 0 && len(clockPart) > 0 {
				timePart += " "
			}
			timePart += clockPart
			if f&Microseconds != 0 {
				timePart += microPart
			}
		}
	}

	if f&(LongFileName|ShortFileName) != 0 {
		name := file
		if f&ShortFileName != 0 {
			name = shortFileName(name)
		}
		filePart = name + " " + strconv.Itoa(line)
	}

	var out string
	if formatter == "" || formatter == DefaultFormatter {
		out = assembleDefault(levelFlag, timePart, filePart, msg)
	} else {
		out = applyTemplate(formatter, levelFlag, timePart, filePart, msg)
	}

	if attr != nil && attr.BodyRenderFile != nil {
		out = attr.BodyRenderFile(out)
	}
	return out
}

// assembleDefault joins the resolved parts the way DefaultFormatter
// ("{level}{time} {file}:{message}\n") would. level and time are joined
// with a space only when both are non-empty, matching spec.md §9's
// "omit separators around empty parts" rule. The space before the file
// slot and the colon after it, however, are part of the template's
// fixed literal text ("{time} {file}:"), not a join between level/time
// and file — so per spec.md §8 testable property #6 that space still
// appears even when filePart is empty, as long as level or time was
// written; it is omitted only when both are empty. The colon before
// the message and the trailing newline are always written.
func assembleDefault(levelFlag, timePart, filePart, msg string) string {
	var b strings.Builder
	wrote := false
	if len(levelFlag) > 0 {
		b.WriteString(levelFlag)
		wrote = true
	}
	if len(timePart) > 0 {
		if wrote {
			b.WriteByte(' ')
		}
		b.WriteString(timePart)
		wrote = true
	}
	if wrote {
		b.WriteByte(' ')
	}
	b.WriteString(filePart)
	b.WriteByte(':')
	b.WriteString(msg)
	b.WriteByte('\n')
	return b.String()
}

// applyTemplate substitutes {level} {time} {file} {message} in an
// arbitrary user template. Unknown {...} placeholders are dropped;
// unbalanced braces are tolerated by treating a stray '{' as a literal
// once no matching '}' ever arrives.
func applyTemplate(tmpl, level, timeStr, file, msg string) string {
	var b strings.Builder
	i := 0
	for i < len(tmpl) {
		c := tmpl[i]
		if c != '{' {
			b.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(tmpl[i:], '}')
		if end < 0 {
			// unbalanced opening brace: emit the rest literally.
			b.WriteString(tmpl[i:])
			break
		}
		name := tmpl[i+1 : i+end]
		switch name {
		case "level":
			b.WriteString(level)
		case "time":
			b.WriteString(timeStr)
		case "file":
			b.WriteString(file)
		case "message":
			b.WriteString(msg)
		default:
			// dropped
		}
		i += end + 1
	}
	return b.String()
}

func shortFileName(f string) string {
	if i := strings.LastIndexAny(f, `/\`); i >= 0 {
		return f[i+1:]
	}
	return f
}

// defaultTimeParts builds the three wall-clock parts used by the
// built-in time renderer: date (YYYY-MM-DD), clock (HH:MM:SS), and a
// six-digit microsecond fraction with no leading separator.
func defaultTimeParts(f Format) (date, clock, micros string) {
	now := time.Now()
	if f&Date != 0 {
		date = now.Format("2006-01-02")
	}
	if f&(Time|Microseconds) != 0 {
		clock = now.Format("15:04:05")
	}
	if f&Microseconds != 0 {
		micros = fixedWidth(now.Nanosecond()/1000, 6)
	}
	return
}

func fixedWidth(v, width int) string {
	s := strconv.Itoa(v)
	for len(s) < width {
		s = "0" + s
	}
	return s
}
