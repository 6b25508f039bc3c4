package model

import "testing"

// TestLabel tests id label derivation from descriptors.
func TestLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		descriptor string
		want       string
	}{
		{descriptor: "Jimi Hendrix", want: "jh"},
		{descriptor: "Alice Bob", want: "ab"},
		{descriptor: "  The   Rolling Stones ", want: "trs"},
		{descriptor: "Björk", want: "b"},
		{descriptor: "Émile Zola", want: "éz"},
		{descriptor: "punk", want: "p"},
		{descriptor: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			t.Parallel()
			if got := Label(tt.descriptor); got != tt.want {
				t.Errorf("Label(%q) = %q, want %q", tt.descriptor, got, tt.want)
			}
		})
	}
}

// TestEntryID tests id generation and injectivity below the page width.
func TestEntryID(t *testing.T) {
	t.Parallel()

	t.Run("formats page and position", func(t *testing.T) {
		t.Parallel()
		if got := EntryID("ab", 1, 0); got != "ab100" {
			t.Errorf("expected ab100, got %s", got)
		}
		if got := EntryID("ab", 2, 0); got != "ab200" {
			t.Errorf("expected ab200, got %s", got)
		}
		if got := EntryID("jh", 12, 34); got != "jh1234" {
			t.Errorf("expected jh1234, got %s", got)
		}
	})

	t.Run("ids are unique for fewer than 100 entries per page", func(t *testing.T) {
		t.Parallel()
		seen := make(map[string]bool)
		for page := 1; page <= 20; page++ {
			for pos := 0; pos < EntriesPerPage; pos++ {
				id := EntryID("x", page, pos)
				if seen[id] {
					t.Fatalf("duplicate id %s at page %d pos %d", id, page, pos)
				}
				seen[id] = true
			}
		}
	})

	t.Run("ids collide at 100 entries per page", func(t *testing.T) {
		t.Parallel()
		if EntryID("x", 1, 100) != EntryID("x", 2, 0) {
			t.Error("expected page 1 position 100 to collide with page 2 position 0")
		}
	})
}

// TestLibraryFileName tests the library CSV name.
func TestLibraryFileName(t *testing.T) {
	t.Parallel()
	if got := LibraryFileName("jh"); got != "jhLIB.csv" {
		t.Errorf("expected jhLIB.csv, got %s", got)
	}
}
