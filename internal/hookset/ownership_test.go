package hookset

import "testing"

func TestIsOwned(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    bool
	}{
		{"current install", "uv run /home/me/.nova-tracer/hooks/session-start.py", true},
		{"checkout named after project", "uv run /src/nova-tracer/hooks/pre-tool-guard.py", true},
		{"older install outside project dir", "uv run /old/path/hooks/post-tool-nova-guard.py", true},
		{"third-party script", "/other/tool.sh", false},
		{"similar but different token", "uv run /opt/nova/hooks/guard.py", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOwned(tt.command); got != tt.want {
				t.Errorf("IsOwned(%q) = %v, want %v", tt.command, got, tt.want)
			}
		})
	}
}

func TestNewOwnershipExtraMarkers(t *testing.T) {
	o := NewOwnership(" claude-protector ", "", "nova-guard", "claude-protector")

	want := []string{"nova-tracer", "nova-guard", "claude-protector"}
	got := o.Markers()
	if len(got) != len(want) {
		t.Fatalf("Markers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Markers()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if !o.Owns("python3 /legacy/claude-protector/scan.py") {
		t.Error("extra marker not honoured")
	}
	if !o.Owns("uv run /x/nova-tracer/hooks/session-end.py") {
		t.Error("default marker lost when extras are set")
	}
}

func TestZeroOwnershipUsesDefaults(t *testing.T) {
	var o Ownership
	if !o.Owns("uv run /a/nova-tracer/b.py") {
		t.Error("zero Ownership should match default markers")
	}
	if len(o.Markers()) != len(DefaultMarkers()) {
		t.Errorf("Markers() = %v, want defaults", o.Markers())
	}
}
