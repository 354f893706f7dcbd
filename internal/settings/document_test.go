package settings

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKeys  []string
		malformed bool
	}{
		{"empty", "", []string{}, false},
		{"whitespace", " \n\t", []string{}, false},
		{"byte order mark", "\xef\xbb\xbf{\"a\": 1}", []string{"a"}, false},
		{"order kept", `{"z": 1, "a": 2, "m": {"y": 0, "b": 1}}`, []string{"z", "a", "m"}, false},
		{"array", `[1, 2]`, nil, true},
		{"string", `"settings"`, nil, true},
		{"truncated", `{"a": `, nil, true},
		{"trailing data", `{"a": 1} {"b": 2}`, nil, true},
		{"trailing comma", `{"a": 1,}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			if tt.malformed {
				if !errors.Is(err, ErrMalformedConfig) {
					t.Fatalf("Parse() error = %v, want ErrMalformedConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := doc.Keys(); !reflect.DeepEqual(got, tt.wantKeys) {
				t.Errorf("Keys() = %v, want %v", got, tt.wantKeys)
			}
		})
	}
}

func TestEncodeKeepsRawValues(t *testing.T) {
	in := `{"url":"https://x.test/?a=1&b=<2>","n":1.50,"nested":{"z":[1,{"k":"v"}],"a":null}}`
	doc := mustParse(t, in)

	want := `{
  "url": "https://x.test/?a=1&b=<2>",
  "n": 1.50,
  "nested": {
    "z": [
      1,
      {
        "k": "v"
      }
    ],
    "a": null
  }
}
`
	if got := mustEncode(t, doc); got != want {
		t.Errorf("Encode() =\n%s\nwant:\n%s", got, want)
	}

	again := mustParse(t, mustEncode(t, doc))
	if !again.Equal(doc) {
		t.Error("re-parsed document differs")
	}
}

func TestObjectMutatorsCopy(t *testing.T) {
	base := Object{{Key: "a", Value: []byte("1")}, {Key: "b", Value: []byte("2")}}

	set := base.Set("a", []byte("9"))
	ins := base.Insert(1, "x", []byte("0"))
	del := base.Delete("a")

	if v, _ := base.Get("a"); string(v) != "1" {
		t.Errorf("Set modified the receiver: a = %s", v)
	}
	if got := ins.Keys(); !reflect.DeepEqual(got, []string{"a", "x", "b"}) {
		t.Errorf("Insert keys = %v", got)
	}
	if got := del.Keys(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Delete keys = %v", got)
	}
	if got := base.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("receiver keys = %v", got)
	}
	if v, _ := set.Get("a"); string(v) != "9" {
		t.Errorf("Set value = %s", v)
	}
	if got := base.Set("c", []byte("3")).Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Set append keys = %v", got)
	}
}

func TestObjectDuplicateKeys(t *testing.T) {
	doc := mustParse(t, `{"a": 1, "a": 2}`)
	if v, _ := doc.Get("a"); string(v) != "2" {
		t.Errorf("Get(a) = %s, want last value", v)
	}
}

func TestHooksJSON(t *testing.T) {
	doc := mustParse(t, `{"hooks":{"Stop":[]}}`)
	data, ok, err := doc.HooksJSON()
	if err != nil || !ok {
		t.Fatalf("HooksJSON() = %v, %v", ok, err)
	}
	if string(data) != "{\n  \"Stop\": []\n}" {
		t.Errorf("HooksJSON() = %q", data)
	}

	if _, ok, _ := NewDocument().HooksJSON(); ok {
		t.Error("empty document reported hooks")
	}
}

func TestMalformedConfigErrorMessage(t *testing.T) {
	err := malformed("PreToolUse", "group %d is not an object", 2)
	if got, want := err.Error(), "malformed settings: hooks.PreToolUse: group 2 is not an object"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := &MalformedConfigError{Reason: "invalid JSON", Err: errors.New("boom")}
	if got, want := wrapped.Error(), "malformed settings: invalid JSON: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, ErrMalformedConfig) {
		t.Error("errors.Is(ErrMalformedConfig) = false")
	}
}
