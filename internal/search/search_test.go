package search

import "testing"

var names = []string{
	"20260831_101502.jpg",
	"20260831_101509.mp4",
	"20260830_180000.jpg",
	"holiday_beach.jpg",
}

func TestFilterNames(t *testing.T) {
	matches := FilterNames("beach", names)
	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	if matches[0].Index != 3 {
		t.Errorf("expected holiday_beach.jpg first, got index %d", matches[0].Index)
	}
	if len(matches[0].MatchedIndexes) == 0 {
		t.Errorf("expected matched character positions for highlighting")
	}
}

func TestFilterNamesEmptyQuery(t *testing.T) {
	if matches := FilterNames("   ", names); matches != nil {
		t.Errorf("blank query must return nil, got %v", matches)
	}
}

func TestBestMatch(t *testing.T) {
	tests := []struct {
		query string
		index int
		ok    bool
	}{
		{"beach", 3, true},
		{"BEACH", 3, true}, // case-insensitive
		{"101509", 1, true},
		{"", 0, false},
		{"zzzzzz", 0, false},
	}
	for _, tt := range tests {
		index, ok := BestMatch(tt.query, names)
		if ok != tt.ok {
			t.Errorf("BestMatch(%q) ok = %v, want %v", tt.query, ok, tt.ok)
			continue
		}
		if ok && index != tt.index {
			t.Errorf("BestMatch(%q) = %d, want %d", tt.query, index, tt.index)
		}
	}
}
