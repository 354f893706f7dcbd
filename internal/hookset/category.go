package hookset

import "fmt"

// Category is a Claude Code hook event name.
type Category string

const (
	SessionStart     Category = "SessionStart"
	UserPromptSubmit Category = "UserPromptSubmit"
	PreToolUse       Category = "PreToolUse"
	PostToolUse      Category = "PostToolUse"
	SessionEnd       Category = "SessionEnd"
)

// Categories returns the managed categories in canonical order.
func Categories() []Category {
	return []Category{
		SessionStart,
		UserPromptSubmit,
		PreToolUse,
		PostToolUse,
		SessionEnd,
	}
}

// CategoryNames returns Categories as plain strings.
func CategoryNames() []string {
	cats := Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return names
}

// Valid reports whether c is one of the managed categories.
func (c Category) Valid() bool {
	return c.Index() >= 0
}

// Index returns the position of c in the canonical order, or -1.
func (c Category) Index() int {
	for i, known := range Categories() {
		if known == c {
			return i
		}
	}
	return -1
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory converts s to a managed Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown hook category %q", s)
	}
	return c, nil
}
