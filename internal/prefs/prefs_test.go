package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")
	want := Prefs{FeedKind: "foryou", FeedURI: "at://did:plc:gen/app.bsky.feed.generator/hot", FeedTitle: "Hot", Muted: true}

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := Load(path); got != want {
		t.Fatalf("load = %+v, want %+v", got, want)
	}
}

func TestLoadMissingFileReturnsZero(t *testing.T) {
	got := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if got != (Prefs{}) {
		t.Fatalf("load = %+v", got)
	}
}

func TestLoadCorruptFileReturnsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("feed_kind = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Load(path); got != (Prefs{}) {
		t.Fatalf("load = %+v", got)
	}
}
