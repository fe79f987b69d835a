package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// formatter renders one visited entry for the print family of actions.
type formatter interface {
	render(entry *Entry) (string, error)
}

// ctimeLayout is the ctime(3) shape used by %a, %c and %t.
const ctimeLayout = "Mon Jan 02 15:04:05 2006"

// newlineFormat is the -print rendition: the path, quoted if it carries
// control characters, with a trailing newline.
type newlineFormat struct{}

func (newlineFormat) render(entry *Entry) (string, error) {
	return quoteFilename(entry.Path()) + "\n", nil
}

// nulFormat is the -print0 rendition: the raw path, NUL terminated.
type nulFormat struct{}

func (nulFormat) render(entry *Entry) (string, error) {
	return entry.Path() + "\x00", nil
}

// printfFormat is the -printf rendition. The format string's backslash
// escapes are resolved once, at construction; %-directives are expanded
// per entry.
type printfFormat struct {
	format string
	follow bool
}

func newPrintfFormat(format string, follow bool) printfFormat {
	return printfFormat{format: unescape(format), follow: follow}
}

func (f printfFormat) render(entry *Entry) (string, error) {
	return expandDirectives(f.format, entry, f.follow)
}

func hasControlChars(s string) bool {
	for _, c := range []byte(s) {
		if c <= 0x1f || c == 0x7f {
			return true
		}
	}
	return false
}

// escapeControl renders control characters the way escaped string
// literals look.
func escapeControl(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		switch {
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\\':
			b.WriteString(`\\`)
		case c <= 0x1f || c == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// quoteFilename wraps the name in single quotes when it carries control
// characters, escaping them so the output stays one line.
func quoteFilename(s string) string {
	if hasControlChars(s) {
		return "'" + escapeControl(s) + "'"
	}
	return s
}

var (
	escapeCRe = regexp.MustCompile(`(?s)\\c.*`)
	escapeRe  = regexp.MustCompile(`\\([0-7]{1,3}|.)`)
)

// unescape resolves the backslash escapes of a -printf format string.
// `\c` truncates the format there, the way printf(1) stops output.
func unescape(s string) string {
	s = escapeCRe.ReplaceAllString(s, "")
	return escapeRe.ReplaceAllStringFunc(s, func(m string) string {
		body := m[1:]
		switch body {
		case "a":
			return "\x07"
		case "b":
			return "\x08"
		case "f":
			return "\x0c"
		case "n":
			return "\n"
		case "r":
			return "\r"
		case "t":
			return "\t"
		case "v":
			return "\x0b"
		case "0":
			return "\x00"
		case `\`:
			return `\`
		}
		if n, err := strconv.ParseUint(body, 8, 8); err == nil {
			return string(rune(n))
		}
		return m
	})
}

func ctimeString(timestamp int64) string {
	return time.Unix(timestamp, 0).Format(ctimeLayout)
}

var directiveRe = regexp.MustCompile(`%([%abcdDfFgGhHiklmMnpPsStuUyY]|[ACT].)`)

// expandDirectives renders the %-directives of a -printf format against
// one entry. Metadata is fetched once, up front.
func expandDirectives(format string, entry *Entry, follow bool) (string, error) {
	m, err := entry.metadata(follow)
	if err != nil {
		return "", err
	}

	out := directiveRe.ReplaceAllStringFunc(format, func(match string) string {
		field := match[1:]
		switch field {
		case "%":
			return "%"
		case "a":
			return ctimeString(m.AccessTime())
		case "b":
			return strconv.FormatInt(m.Blocks(), 10)
		case "c":
			return ctimeString(m.ChangeTime())
		case "d":
			return strconv.Itoa(entry.Depth())
		case "D":
			return strconv.FormatUint(m.Dev(), 10)
		case "f":
			base, ok := baseName(entry.Path())
			if !ok {
				return ""
			}
			return base
		case "F":
			abs, err := filepath.Abs(entry.Path())
			if err != nil {
				return "Unknown"
			}
			return fstypeForPath(abs)
		case "g":
			if name, ok := lookupGroupname(m.GID()); ok {
				return name
			}
			return strconv.FormatUint(uint64(m.GID()), 10)
		case "G":
			return strconv.FormatUint(uint64(m.GID()), 10)
		case "h":
			return filepath.Dir(entry.Path())
		case "H":
			return entry.StartingPoint()
		case "i":
			return strconv.FormatUint(m.Inode(), 10)
		case "k":
			return strconv.FormatInt(m.Blocks()>>1, 10)
		case "l":
			target, err := os.Readlink(entry.Path())
			if err != nil {
				return ""
			}
			return target
		case "m":
			return strconv.FormatUint(uint64(m.Mode()&0o777), 8)
		case "M":
			return modeSymbols(m.Mode())
		case "n":
			return strconv.FormatUint(m.Nlink(), 10)
		case "p":
			return entry.Path()
		case "P":
			return strings.TrimPrefix(entry.Path(), entry.StartingPoint())
		case "s":
			return strconv.FormatInt(m.Size(), 10)
		case "S":
			return strconv.FormatFloat(
				float64(m.BlockSize())*float64(m.Blocks())/float64(m.Size()), 'g', -1, 64)
		case "t":
			return ctimeString(m.ModTime())
		case "u":
			if name, ok := lookupUsername(m.UID()); ok {
				return name
			}
			return strconv.FormatUint(uint64(m.UID()), 10)
		case "U":
			return strconv.FormatUint(uint64(m.UID()), 10)
		case "y":
			return string(modeTypeChar(m.Mode()))
		case "Y":
			resolved, err := entry.Stat()
			if err != nil {
				if os.IsNotExist(err) {
					return "N"
				}
				return "?"
			}
			return string(modeTypeChar(resolved.Mode()))
		}

		// %A. / %C. / %T.
		var timestamp int64
		switch field[0] {
		case 'A':
			timestamp = m.AccessTime()
		case 'C':
			timestamp = m.ChangeTime()
		default:
			timestamp = m.ModTime()
		}
		return strftimeChar(field[1], time.Unix(timestamp, 0))
	})
	return out, nil
}

// strftimeChar renders one strftime(3) format character.
func strftimeChar(spec byte, t time.Time) string {
	switch spec {
	case '@':
		return strconv.FormatInt(t.Unix(), 10)
	case 'a':
		return t.Format("Mon")
	case 'b', 'h':
		return t.Format("Jan")
	case 'd':
		return t.Format("02")
	case 'e':
		return t.Format("_2")
	case 'm':
		return t.Format("01")
	case 'y':
		return t.Format("06")
	case 'Y':
		return t.Format("2006")
	case 'H':
		return t.Format("15")
	case 'M':
		return t.Format("04")
	case 'S':
		return t.Format("05")
	case 'p':
		return t.Format("PM")
	case 'D':
		return t.Format("01/02/06")
	case 'F':
		return t.Format("2006-01-02")
	case 'T':
		return t.Format("15:04:05")
	case 'c':
		return t.Format(ctimeLayout)
	}
	return ""
}

// modeSymbols renders the ten character ls -l mode column.
func modeSymbols(mode uint32) string {
	chars := []byte("----------")
	chars[0] = modeTypeChar(mode)

	set := func(i int, bit uint32, c byte) {
		if mode&bit != 0 {
			chars[i] = c
		}
	}
	set(1, 0o400, 'r')
	set(2, 0o200, 'w')
	set(4, 0o040, 'r')
	set(5, 0o020, 'w')
	set(7, 0o004, 'r')
	set(8, 0o002, 'w')

	execChar := func(i int, execBit, specialBit uint32, lower, upper byte) {
		switch {
		case mode&execBit != 0 && mode&specialBit != 0:
			chars[i] = lower
		case mode&execBit != 0:
			chars[i] = 'x'
		case mode&specialBit != 0:
			chars[i] = upper
		}
	}
	execChar(3, 0o100, 0o4000, 's', 'S')
	execChar(6, 0o010, 0o2000, 's', 'S')
	execChar(9, 0o001, 0o1000, 't', 'T')

	return string(chars)
}

// modeTypeChar is the file type letter the way %y and %M render it, with
// `-` for regular files.
func modeTypeChar(mode uint32) byte {
	switch (mode & 0o170000) >> 12 {
	case 0o01:
		return 'p'
	case 0o02:
		return 'c'
	case 0o04:
		return 'd'
	case 0o06:
		return 'b'
	case 0o10:
		return '-'
	case 0o12:
		return 'l'
	case 0o14:
		return 's'
	}
	return '?'
}
