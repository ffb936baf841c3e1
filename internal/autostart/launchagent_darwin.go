package autostart

import (
	"bytes"
	"encoding/xml"
	"path/filepath"

	"github.com/spf13/afero"
)

// New returns a LaunchAgent in ~/Library/LaunchAgents that runs at load.
func New(fs afero.Fs, e Entry) (Autostart, error) {
	home, err := userHomeDir()
	if err != nil {
		return nil, err
	}
	label := "dev." + e.Name + ".agent"
	return &fileAutostart{
		fs:      fs,
		path:    filepath.Join(home, "Library", "LaunchAgents", label+".plist"),
		content: func() []byte { return launchAgentPlist(label, e.Command) },
	}, nil
}

func launchAgentPlist(label string, command []string) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	b.WriteString("<plist version=\"1.0\">\n<dict>\n")
	b.WriteString("\t<key>Label</key>\n\t<string>")
	xml.EscapeText(&b, []byte(label))
	b.WriteString("</string>\n\t<key>ProgramArguments</key>\n\t<array>\n")
	for _, arg := range command {
		b.WriteString("\t\t<string>")
		xml.EscapeText(&b, []byte(arg))
		b.WriteString("</string>\n")
	}
	b.WriteString("\t</array>\n\t<key>RunAtLoad</key>\n\t<true/>\n")
	b.WriteString("\t<key>ProcessType</key>\n\t<string>Interactive</string>\n")
	b.WriteString("</dict>\n</plist>\n")
	return b.Bytes()
}
