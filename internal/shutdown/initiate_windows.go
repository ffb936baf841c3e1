//go:build windows

package shutdown

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows"
)

var initiateSystemShutdownEx = windows.InitiateSystemShutdownEx

// enableShutdownPrivilege turns on SeShutdownPrivilege for this process,
// which InitiateSystemShutdownEx requires even for interactive users.
func enableShutdownPrivilege() error {
	var token windows.Token
	if err := windows.OpenProcessToken(windows.CurrentProcess(), windows.TOKEN_ADJUST_PRIVILEGES|windows.TOKEN_QUERY, &token); err != nil {
		return fmt.Errorf("open process token: %w", err)
	}
	defer token.Close()

	name, err := windows.UTF16PtrFromString("SeShutdownPrivilege")
	if err != nil {
		return err
	}
	var luid windows.LUID
	if err := windows.LookupPrivilegeValue(nil, name, &luid); err != nil {
		return fmt.Errorf("lookup SeShutdownPrivilege: %w", err)
	}
	privs := windows.Tokenprivileges{
		PrivilegeCount: 1,
		Privileges: [1]windows.LUIDAndAttributes{
			{Luid: luid, Attributes: windows.SE_PRIVILEGE_ENABLED},
		},
	}
	if err := windows.AdjustTokenPrivileges(token, false, &privs, 0, nil, nil); err != nil {
		return fmt.Errorf("adjust token privileges: %w", err)
	}
	return nil
}

func initiateMethod() Method {
	return Method{
		Name: "InitiateSystemShutdownEx",
		Run: func(_ context.Context, req Request) error {
			if err := enableShutdownPrivilege(); err != nil {
				return err
			}
			var msg *uint16
			if text := truncate(req.Message, maxWindowsMessage); text != "" {
				p, err := windows.UTF16PtrFromString(text)
				if err != nil {
					return err
				}
				msg = p
			}
			t := secondsOf(req.Delay)
			if t > maxWindowsDelay {
				t = maxWindowsDelay
			}
			return initiateSystemShutdownEx(nil, msg, uint32(t), req.Force, false, windows.SHTDN_REASON_FLAG_PLANNED)
		},
	}
}
