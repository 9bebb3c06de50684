package player

import "testing"

func TestCanonicalSurname(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "display convention", input: "Mohamed Salah - LIV FWD", want: "salah"},
		{name: "raw feed name", input: "Salah", want: "salah"},
		{name: "full name no suffix", input: "Mohamed Salah", want: "salah"},
		{name: "extra whitespace", input: "  Erling   Haaland - MCI FWD ", want: "haaland"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   ", want: ""},
		{name: "hyphenated surname", input: "Son Heung-min - TOT FWD", want: "heung-min"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CanonicalSurname(tc.input); got != tc.want {
				t.Fatalf("CanonicalSurname(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestCanonicalSurname_RoundTrip(t *testing.T) {
	t.Parallel()

	predicted := "Mohamed Salah - LIV FWD"
	feed := "M. Salah"
	if CanonicalSurname(predicted) != CanonicalSurname(feed) {
		t.Fatalf("display form %q and feed form %q should canonicalize identically", predicted, feed)
	}
}

func TestRefMatchesName(t *testing.T) {
	t.Parallel()

	ref := NewRef("p-101", "Mohamed Salah - LIV FWD")
	if ref.Surname != "salah" {
		t.Fatalf("unexpected surname: %q", ref.Surname)
	}
	if !ref.MatchesName("Salah") {
		t.Fatal("expected feed name to match canonical surname")
	}
	if ref.MatchesName("Nunez") {
		t.Fatal("different surname must not match")
	}

	empty := NewRef("p-0", "")
	if empty.MatchesName("") {
		t.Fatal("empty surname must never match")
	}
}
