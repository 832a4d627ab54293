package domain

import "testing"

func TestKindForName(t *testing.T) {
	tests := []struct {
		name string
		kind MediaKind
		ok   bool
	}{
		{"20260831_101502.jpg", MediaKindImage, true},
		{"photo.JPEG", MediaKindImage, true},
		{"screenshot.png", MediaKindImage, true},
		{"portrait.heic", MediaKindImage, true},
		{"clip.mp4", MediaKindVideo, true},
		{"clip.MOV", MediaKindVideo, true},
		{"archive.zip", 0, false},
		{"noextension", 0, false},
		{".thumbnails", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		kind, ok := KindForName(tt.name)
		if ok != tt.ok {
			t.Errorf("KindForName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && kind != tt.kind {
			t.Errorf("KindForName(%q) = %v, want %v", tt.name, kind, tt.kind)
		}
	}
}

func TestDeleteSummaryFailed(t *testing.T) {
	if (DeleteSummary{Deleted: 3, Skipped: 2}).Failed() {
		t.Errorf("skips alone must not count as failure")
	}
	if !(DeleteSummary{Deleted: 3, Errors: 1}).Failed() {
		t.Errorf("any error must mark the summary failed")
	}
}
