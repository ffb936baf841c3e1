//go:build !windows && !darwin

package autostart

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestXDGEnableDisable(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/home/me/.config")
	fs := afero.NewMemMapFs()
	a, err := New(fs, Entry{Name: "lightsout", Command: []string{"/opt/light sout/lightsout", "daemon"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Location() != "/home/me/.config/autostart/lightsout.desktop" {
		t.Errorf("Location = %s", a.Location())
	}
	if on, _ := a.Enabled(); on {
		t.Fatal("should start disabled")
	}

	if err := a.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if on, _ := a.Enabled(); !on {
		t.Fatal("Enabled() = false after Enable")
	}
	b, _ := afero.ReadFile(fs, a.Location())
	content := string(b)
	for _, want := range []string{
		"[Desktop Entry]\n",
		"Type=Application\n",
		`Exec="/opt/light sout/lightsout" daemon` + "\n",
		"X-GNOME-Autostart-enabled=true\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("desktop entry missing %q:\n%s", want, content)
		}
	}

	if err := a.Disable(); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if on, _ := a.Enabled(); on {
		t.Fatal("Enabled() = true after Disable")
	}
	if err := a.Disable(); err != nil {
		t.Fatalf("second Disable: %v", err)
	}
}

func TestXDGDefaultsToHomeConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	old := userHomeDir
	userHomeDir = func() (string, error) { return "/home/u", nil }
	defer func() { userHomeDir = old }()

	a, err := New(afero.NewMemMapFs(), Entry{Name: "lightsout", Command: []string{"lightsout"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Location() != "/home/u/.config/autostart/lightsout.desktop" {
		t.Errorf("Location = %s", a.Location())
	}
}

func TestDesktopQuote(t *testing.T) {
	tests := []struct{ in, want string }{
		{"daemon", "daemon"},
		{"", `""`},
		{"a b", `"a b"`},
		{`say "hi"`, `"say \"hi\""`},
		{"$HOME", `"\$HOME"`},
		{"100%", `"100%%"`},
	}
	for _, tt := range tests {
		if got := desktopQuote(tt.in); got != tt.want {
			t.Errorf("desktopQuote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
