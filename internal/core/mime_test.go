package core

import "testing"

func TestGetContentType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"dist/client/assets/index-4f2a.js", "application/javascript"},
		{"dist/client/assets/index-4f2a.JS", "application/javascript"},
		{"dist/client/assets/index-4f2a.css", "text/css; charset=utf-8"},
		{"dist/client/assets/index-4f2a.js.map", "application/json"},
		{"dist/client/assets/logo.webp", "image/webp"},
		{"dist/client/robots.txt", "text/plain; charset=utf-8"},
		{"dist/client/blob.unknownext", "application/octet-stream"},
		{"dist/client/noext", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := GetContentType(tt.path); got != tt.want {
				t.Errorf("GetContentType(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
