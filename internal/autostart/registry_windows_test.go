package autostart

import (
	"testing"

	"golang.org/x/sys/windows/registry"
)

type fakeRunKey struct {
	values map[string]string
}

func (k *fakeRunKey) GetStringValue(name string) (string, uint32, error) {
	v, ok := k.values[name]
	if !ok {
		return "", 0, registry.ErrNotExist
	}
	return v, registry.SZ, nil
}

func (k *fakeRunKey) SetStringValue(name, value string) error {
	k.values[name] = value
	return nil
}

func (k *fakeRunKey) DeleteValue(name string) error {
	if _, ok := k.values[name]; !ok {
		return registry.ErrNotExist
	}
	delete(k.values, name)
	return nil
}

func (k *fakeRunKey) Close() error { return nil }

func TestRegistryAutostart(t *testing.T) {
	key := &fakeRunKey{values: map[string]string{}}
	old := openRunKey
	openRunKey = func(uint32) (runKey, error) { return key, nil }
	defer func() { openRunKey = old }()

	a, err := New(nil, Entry{Name: "lightsout", Command: []string{`C:\Program Files\lightsout\lightsout.exe`, "daemon"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if on, _ := a.Enabled(); on {
		t.Fatal("should start disabled")
	}
	if err := a.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if got := key.values["lightsout"]; got != `"C:\Program Files\lightsout\lightsout.exe" daemon` {
		t.Errorf("Run value = %s", got)
	}
	if on, _ := a.Enabled(); !on {
		t.Fatal("Enabled() = false after Enable")
	}
	if err := a.Disable(); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if err := a.Disable(); err != nil {
		t.Fatalf("second Disable: %v", err)
	}
}
