package settings

import (
	"errors"
	"testing"

	"github.com/nova-tracer/nova-tracer/internal/hookset"
)

func TestInspect(t *testing.T) {
	hs := mustHookSet(t, "/opt/nova-tracer")

	installed, _, err := Merge(mustParse(t, `{
  "hooks": {
    "PreToolUse": [
      {"matcher": "Bash", "hooks": [{"type": "command", "command": "other-tool check"}]}
    ]
  }
}`), hs)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	stale, _, err := Merge(NewDocument(), mustHookSet(t, "/old/nova-tracer"))
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	tests := []struct {
		name          string
		doc           *Document
		wantInstalled bool
		wantUpToDate  bool
		check         func(t *testing.T, r Report)
	}{
		{
			name: "empty document",
			doc:  NewDocument(),
			check: func(t *testing.T, r Report) {
				if r.HasHooks {
					t.Error("HasHooks = true for empty document")
				}
				for _, c := range r.Categories {
					if c.Present || c.Owned != 0 || c.Expected != hs.BindingCount(c.Category) {
						t.Errorf("%s report = %+v", c.Category, c)
					}
				}
			},
		},
		{
			name:          "installed alongside foreign hooks",
			doc:           installed,
			wantInstalled: true,
			wantUpToDate:  true,
			check: func(t *testing.T, r Report) {
				var pre CategoryReport
				for _, c := range r.Categories {
					if c.Category == hookset.PreToolUse {
						pre = c
					}
				}
				if pre.Groups != 4 || pre.Owned != 3 || pre.Foreign != 1 || !pre.UpToDate {
					t.Errorf("PreToolUse report = %+v", pre)
				}
			},
		},
		{
			name:          "installed from another root",
			doc:           stale,
			wantInstalled: true,
			wantUpToDate:  false,
		},
		{
			name: "malformed category",
			doc:  mustParse(t, `{"hooks": {"SessionEnd": "nope"}}`),
			check: func(t *testing.T, r Report) {
				if r.Err != nil {
					t.Errorf("document error = %v, want per-category error", r.Err)
				}
				for _, c := range r.Categories {
					if c.Category == hookset.SessionEnd && !errors.Is(c.Err, ErrMalformedConfig) {
						t.Errorf("SessionEnd error = %v", c.Err)
					}
				}
			},
		},
		{
			name: "hooks not an object",
			doc:  mustParse(t, `{"hooks": 3}`),
			check: func(t *testing.T, r Report) {
				if !errors.Is(r.Err, ErrMalformedConfig) {
					t.Errorf("Err = %v, want ErrMalformedConfig", r.Err)
				}
				if len(r.Categories) != len(hookset.Categories()) {
					t.Errorf("categories = %d", len(r.Categories))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := mustEncode(t, tt.doc)
			r := Inspect(tt.doc, hs)
			if got := r.Installed(); got != tt.wantInstalled {
				t.Errorf("Installed() = %v, want %v", got, tt.wantInstalled)
			}
			if got := r.UpToDate(); got != tt.wantUpToDate {
				t.Errorf("UpToDate() = %v, want %v", got, tt.wantUpToDate)
			}
			if tt.check != nil {
				tt.check(t, r)
			}
			if after := mustEncode(t, tt.doc); after != before {
				t.Error("Inspect modified its input")
			}
		})
	}
}
