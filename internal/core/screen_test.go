package core

import (
	"strings"
	"testing"
)

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 5)

	s.SetCell(3, 2, '@', ColorGreen)
	cell := s.GetCell(3, 2)
	if cell.Rune != '@' || cell.Color != ColorGreen {
		t.Errorf("GetCell(3, 2) = %+v, expected {@ green}", cell)
	}

	// Out-of-bounds writes must be ignored
	s.SetCell(-1, 0, 'x', ColorRed)
	s.SetCell(10, 0, 'x', ColorRed)
	s.SetCell(0, 5, 'x', ColorRed)

	// Out-of-bounds reads return blanks
	if got := s.GetCell(-1, -1); got.Rune != ' ' {
		t.Errorf("out-of-bounds GetCell returned %q, expected space", got.Rune)
	}
}

func TestScreenResizePreservesContent(t *testing.T) {
	s := NewScreen(10, 5)
	s.SetCell(2, 2, '#', ColorCyan)

	s.Resize(20, 10)
	if s.Width() != 20 || s.Height() != 10 {
		t.Fatalf("Resize() dimensions = %dx%d, expected 20x10", s.Width(), s.Height())
	}
	if cell := s.GetCell(2, 2); cell.Rune != '#' {
		t.Errorf("content at (2,2) lost after grow: %q", cell.Rune)
	}

	s.Resize(3, 3)
	if cell := s.GetCell(2, 2); cell.Rune != '#' {
		t.Errorf("content at (2,2) lost after shrink: %q", cell.Rune)
	}
}

func TestScreenDrawTextClips(t *testing.T) {
	s := NewScreen(5, 1)
	s.DrawText(3, 0, "hello", ColorDefault)

	if got := s.String(); got != "   he" {
		t.Errorf("String() = %q, expected %q", got, "   he")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(6, 4)
	s.DrawBox(NewRect(0, 0, 6, 4), ColorDefault)

	rows := strings.Split(s.String(), "\n")
	if rows[0] != "┌────┐" {
		t.Errorf("top row = %q", rows[0])
	}
	if rows[3] != "└────┘" {
		t.Errorf("bottom row = %q", rows[3])
	}
}
