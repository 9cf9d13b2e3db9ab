package ui

import "testing"

func TestNormalizeAccentColor(t *testing.T) {
	cases := map[string]struct {
		want string
		ok   bool
	}{
		"":        {"", false},
		"none":    {"", false},
		"off":     {"", false},
		"default": {"", false},
		"blue":    {"", false},
		"39":      {"39", true},
		"  244 ":  {"244", true},
		"256":     {"", false},
		"-1":      {"", false},
		"#7aa2f7": {"#7aa2f7", true},
		"#AaBbCc": {"#aabbcc", true},
		"#abc":    {"#aabbcc", true},
		"#ab":     {"", false},
		"#zzzzzz": {"", false},
	}

	for input, tc := range cases {
		got, ok := normalizeAccentColor(input)
		if got != tc.want || ok != tc.ok {
			t.Errorf("normalizeAccentColor(%q) = %q, %v; want %q, %v", input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestConfigureTheme(t *testing.T) {
	t.Cleanup(func() { ConfigureTheme("") })

	ConfigureTheme("39")
	if got, ok := AccentColor(); !ok || got != "39" {
		t.Errorf("AccentColor after ConfigureTheme(39) = %q, %v", got, ok)
	}

	ConfigureTheme("bogus")
	if _, ok := AccentColor(); ok {
		t.Error("invalid accent left an override configured")
	}
}
