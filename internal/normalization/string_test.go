package normalization

import "testing"

func TestParseInputString(t *testing.T) {
	if got := ParseInputString("  Ana@Example.COM "); got != "ana@example.com" {
		t.Fatalf("ParseInputString: got %q", got)
	}
}

func TestCleanText(t *testing.T) {
	if got := CleanText("  Fontanería\n\n López\t 24h "); got != "Fontanería López 24h" {
		t.Fatalf("CleanText: got %q", got)
	}
}
