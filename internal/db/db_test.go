package db

import "testing"

func TestDSN(t *testing.T) {
	t.Parallel()

	got := DSN(Options{
		Host:     "localhost",
		Port:     3306,
		User:     "wiki",
		Password: "secret",
		Name:     "wikidb",
	})

	want := "wiki:secret@tcp(localhost:3306)/wikidb?charset=utf8mb4&parseTime=true"
	if got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}

func TestDSNWithoutPassword(t *testing.T) {
	t.Parallel()

	got := DSN(Options{Host: "db.example.com", Port: 3307, User: "wiki", Name: "wikidb"})

	want := "wiki@tcp(db.example.com:3307)/wikidb?charset=utf8mb4&parseTime=true"
	if got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}

func TestDSNCustomCharset(t *testing.T) {
	t.Parallel()

	got := DSN(Options{Host: "h", Port: 3306, User: "u", Name: "d", Charset: "latin1"})

	want := "u@tcp(h:3306)/d?charset=latin1&parseTime=true"
	if got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}

func TestOpenValidatesOptions(t *testing.T) {
	t.Parallel()

	if _, err := Open(Options{Name: "wikidb"}); err == nil {
		t.Errorf("expected error without host")
	}

	if _, err := Open(Options{Host: "localhost"}); err == nil {
		t.Errorf("expected error without database name")
	}
}

func TestCloseNilIsNoop(t *testing.T) {
	t.Parallel()

	if err := Close(nil); err != nil {
		t.Fatalf("Close(nil) returned error: %v", err)
	}
}
