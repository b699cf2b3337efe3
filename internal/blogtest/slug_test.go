package blogtest

import "testing"

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"What's new? AI & Philosophy!", "whats-new-ai-philosophy"},
		{"already-a-slug", "already-a-slug"},
		{"multiple --- dashes", "multiple-dashes"},
		{"snake_case stays", "snake_case-stays"},
	}
	for _, tt := range tests {
		if got := GenerateSlug(tt.title); got != tt.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
