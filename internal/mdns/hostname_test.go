package mdns

import "testing"

func TestSanitizeHostname(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"", "ipp-printer"},
		{"Office Printer", "office-printer"},
		{"My  Printer!!", "my-printer"},
		{"---", "ipp-printer"},
		{"Déjà Vu", "dj-vu"},
		{"My Photo Printer", "my-photo-printer"},
		{"😀 Printer", "printer"},
		{"already-sane", "already-sane"},
	}
	for _, c := range cases {
		if got := SanitizeHostname(c.name); got != c.want {
			t.Errorf("SanitizeHostname(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestSanitizeHostnameTruncatesAndCollapses(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "a-"
	}
	got := SanitizeHostname(long)
	if len(got) > 63 {
		t.Errorf("result too long: %d bytes", len(got))
	}
	if contains := containsDoubleHyphen(got); contains {
		t.Errorf("result still contains double hyphen after truncation: %q", got)
	}
}

func containsDoubleHyphen(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '-' && s[i+1] == '-' {
			return true
		}
	}
	return false
}
