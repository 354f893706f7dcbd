package ui

import (
	"bytes"
	"os"
	"testing"
)

func TestPrinterLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterWithColor(&buf, false)

	p.Success("Installed %d hooks", 7)
	p.Warn("script missing: %s", "a.py")
	p.Fail("nope")
	p.Info("plain %s", "text")
	p.Detail("indented")
	p.Field("Settings", "/x/settings.json")

	want := "✅ Installed 7 hooks\n" +
		"⚠️  script missing: a.py\n" +
		"❌ nope\n" +
		"plain text\n" +
		"  indented\n" +
		"  Settings: /x/settings.json\n"
	if got := buf.String(); got != want {
		t.Errorf("output:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrinterTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterWithColor(&buf, false)

	p.Table([]string{"Category", "Owned", "State"}, [][]string{
		{"SessionStart", "1", "up to date"},
		{"PreToolUse", "12", "stale"},
	})

	want := "  Category      Owned  State\n" +
		"  SessionStart  1      up to date\n" +
		"  PreToolUse    12     stale\n"
	if got := buf.String(); got != want {
		t.Errorf("table:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrinterBlock(t *testing.T) {
	var buf bytes.Buffer
	NewPrinterWithColor(&buf, false).Block("{\n  \"a\": 1\n}\n")
	if got, want := buf.String(), "  {\n    \"a\": 1\n  }\n"; got != want {
		t.Errorf("Block() = %q, want %q", got, want)
	}
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	if ColorEnabled(&buf) {
		t.Error("buffer reported as colour capable")
	}
	if IsTerminal(&buf) {
		t.Error("buffer reported as terminal")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if IsTerminal(f) {
		t.Error("regular file reported as terminal")
	}

	t.Setenv("NO_COLOR", "1")
	if ColorEnabled(os.Stdout) {
		t.Error("NO_COLOR ignored")
	}
}
