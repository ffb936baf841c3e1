//go:build !windows && !darwin

package autostart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// New returns an XDG autostart entry under $XDG_CONFIG_HOME/autostart.
func New(fs afero.Fs, e Entry) (Autostart, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := userHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".config")
	}
	return &fileAutostart{
		fs:      fs,
		path:    filepath.Join(base, "autostart", e.Name+".desktop"),
		content: func() []byte { return desktopEntry(e) },
	}, nil
}

func desktopEntry(e Entry) []byte {
	args := make([]string, len(e.Command))
	for i, a := range e.Command {
		args[i] = desktopQuote(a)
	}
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	fmt.Fprintf(&b, "Name=%s\n", e.Name)
	b.WriteString("Comment=Evening shutdown reminder\n")
	fmt.Fprintf(&b, "Exec=%s\n", strings.Join(args, " "))
	b.WriteString("Terminal=false\n")
	b.WriteString("NoDisplay=true\n")
	b.WriteString("X-GNOME-Autostart-enabled=true\n")
	return []byte(b.String())
}

// desktopQuote quotes an Exec argument the way desktop entries expect:
// double quotes, with backslash before ", `, $ and \.
func desktopQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"'\\><~|&;$*?#()`=%") {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '`', '$', '\\':
			b.WriteByte('\\')
		case '%':
			b.WriteByte('%')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
