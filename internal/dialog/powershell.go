package dialog

import (
	"fmt"
	"strings"
)

// WScript.Shell Popup return values.
const (
	popupYes     = "6"
	popupNo      = "7"
	popupTimeout = "-1"
)

// Popup button and icon flags: MB_YESNO | MB_ICONWARNING | MB_SYSTEMMODAL.
const popupFlags = 4 + 48 + 4096

type powershell struct{}

func (powershell) name() string      { return "powershell" }
func (powershell) binary() string    { return "powershell.exe" }
func (powershell) selfTimeout() bool { return true }

// psQuote renders s as a single-quoted PowerShell literal.
func psQuote(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func psTimeout(req Request) int {
	if req.Timeout <= 0 {
		return 0
	}
	return seconds(req.Timeout)
}

func psArgs(script string) []string {
	return []string{"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", script}
}

// Popup cannot relabel its buttons, so the labels are spelled out in the
// message body.
func popupMessage(req Request) string {
	if req.AcceptLabel == "" && req.DeclineLabel == "" {
		return req.Message
	}
	accept, decline := labels(req)
	return fmt.Sprintf("%s\n\nYes: %s\nNo: %s", req.Message, accept, decline)
}

func (powershell) askArgs(req Request) []string {
	script := fmt.Sprintf("$r = (New-Object -ComObject WScript.Shell).Popup(%s, %d, %s, %d); [Console]::Out.Write($r)",
		psQuote(popupMessage(req)), psTimeout(req), psQuote(req.Title), popupFlags)
	return psArgs(script)
}

func (p powershell) parseAsk(_ Request, out string, code int) (Response, error) {
	if code != 0 {
		return Closed, unexpectedExit(p, code)
	}
	switch strings.TrimSpace(out) {
	case popupYes:
		return Accepted, nil
	case popupNo:
		return Declined, nil
	case popupTimeout:
		return TimedOut, nil
	}
	return Closed, nil
}

func (powershell) notifyArgs(req Request) []string {
	// 0 = MB_OK, 48 = MB_ICONWARNING, 4096 = MB_SYSTEMMODAL.
	script := fmt.Sprintf("[void](New-Object -ComObject WScript.Shell).Popup(%s, %d, %s, %d)",
		psQuote(req.Message), psTimeout(req), psQuote(req.Title), 48+4096)
	return psArgs(script)
}

// secretScript builds a small WinForms password box. It prints "ok:" and the
// entered text, "cancel", or "timeout".
const secretScript = `Add-Type -AssemblyName System.Windows.Forms
$f = New-Object System.Windows.Forms.Form
$f.Text = %[1]s
$f.TopMost = $true
$f.StartPosition = 'CenterScreen'
$f.FormBorderStyle = 'FixedDialog'
$f.Width = 380; $f.Height = 170
$l = New-Object System.Windows.Forms.Label
$l.Text = %[2]s; $l.Left = 10; $l.Top = 10; $l.Width = 350
$t = New-Object System.Windows.Forms.TextBox
$t.UseSystemPasswordChar = $true; $t.Left = 10; $t.Top = 40; $t.Width = 340
$ok = New-Object System.Windows.Forms.Button
$ok.Text = %[3]s; $ok.Left = 190; $ok.Top = 80; $ok.DialogResult = 'OK'
$no = New-Object System.Windows.Forms.Button
$no.Text = %[4]s; $no.Left = 275; $no.Top = 80; $no.DialogResult = 'Cancel'
$f.Controls.AddRange(@($l, $t, $ok, $no))
$f.AcceptButton = $ok; $f.CancelButton = $no
$script:gaveUp = $false
if (%[5]d -gt 0) {
  $tm = New-Object System.Windows.Forms.Timer
  $tm.Interval = %[5]d * 1000
  $tm.Add_Tick({ $script:gaveUp = $true; $f.Close() })
  $tm.Start()
}
$r = $f.ShowDialog()
if ($script:gaveUp) { [Console]::Out.Write('timeout') }
elseif ($r -eq 'OK') { [Console]::Out.Write('ok:' + $t.Text) }
else { [Console]::Out.Write('cancel') }`

func (powershell) secretArgs(req Request) []string {
	accept, decline := labels(req)
	if req.AcceptLabel == "" {
		accept = "OK"
	}
	if req.DeclineLabel == "" {
		decline = "Cancel"
	}
	script := fmt.Sprintf(secretScript, psQuote(req.Title), psQuote(req.Message),
		psQuote(accept), psQuote(decline), psTimeout(req))
	return psArgs(script)
}

func (p powershell) parseSecret(_ Request, out string, code int) (string, Response, error) {
	if code != 0 {
		return "", Closed, unexpectedExit(p, code)
	}
	if text, ok := strings.CutPrefix(out, "ok:"); ok {
		return text, Accepted, nil
	}
	switch out {
	case "timeout":
		return "", TimedOut, nil
	case "cancel":
		return "", Declined, nil
	}
	return "", Closed, nil
}
