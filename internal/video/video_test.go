package video

import (
	"errors"
	"testing"
)

func TestExtractID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch без www", "https://youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch без схемы", "www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"короткая ссылка", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"nocookie", "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"хвост параметров", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractID(tc.url)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("ожидали %q, получили %q", tc.want, got)
			}
		})
	}
}

func TestExtractID_Rejects(t *testing.T) {
	bad := []string{
		"https://vimeo.com/123",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"не ссылка вовсе",
		"https://youtu.be/short",
		"",
	}
	for _, url := range bad {
		if _, err := ExtractID(url); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("для %q ожидали ErrInvalidURL, получили %v", url, err)
		}
	}
}
