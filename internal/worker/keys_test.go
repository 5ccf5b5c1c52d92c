package worker

import "testing"

func TestDeriveThumbKey(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		expect string
	}{
		{"png upload", "user-uploads/u1/posts/abc.png", "user-uploads/u1/posts/abc_thumb.jpg"},
		{"jpeg upload", "u1/posts/x.jpeg", "u1/posts/x_thumb.jpg"},
		{"webp upload", "u1/posts/x.webp", "u1/posts/x_thumb.jpg"},
		{"dot in directory", "builds.v2/posts/photo.png", "builds.v2/posts/photo_thumb.jpg"},
		{"no extension", "u1/posts/raw", "u1/posts/raw_thumb.jpg"},
		{"double extension", "u1/posts/archive.tar.gz", "u1/posts/archive.tar_thumb.jpg"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := DeriveThumbKey(test.in); got != test.expect {
				t.Errorf("DeriveThumbKey(%q) = %q, want %q", test.in, got, test.expect)
			}
		})
	}
}
