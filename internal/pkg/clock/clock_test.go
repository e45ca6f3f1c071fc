package clock

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	c, err := New("Asia/Jakarta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name := c.Now().Location().String(); name != "Asia/Jakarta" {
		t.Errorf("expected Asia/Jakarta, got %s", name)
	}

	c, err = New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Now().Location() != time.UTC {
		t.Error("expected UTC for an empty timezone")
	}

	if _, err := New("Mars/Olympus"); err == nil {
		t.Error("expected an error for an unknown timezone")
	}
}

func TestFixed(t *testing.T) {
	at := time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)
	c := Fixed(at)
	if !c.Now().Equal(at) {
		t.Errorf("expected %v, got %v", at, c.Now())
	}
}
