package indenter

import "testing"

func TestIndenter(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"empty", Indenter().Start("{").NestStrings().End("}"), "{\n}"},
		{"inline", Indenter().Start("{").NestStrings("a").End("}"), "{a}"},
		{"lines", Indenter().Start("{").NestStringsSep(",", "a", "b").End("}"), "{\n  a,\n  b\n}"},
		{
			"nested",
			Indenter().Start("[").NestStrings(
				Indenter().Start("{").NestStrings("a", "b").End("}"),
				"c",
			).End("]"),
			"[\n  {\n    a\n    b\n  }\n  c\n]",
		},
	}

	for _, test := range tests {
		if test.got != test.expected {
			t.Errorf("%s: got\n%s\nexpected\n%s", test.name, test.got, test.expected)
		}
	}
}
