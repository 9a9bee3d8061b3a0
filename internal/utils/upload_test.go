package utils

import "testing"

func TestGetFileExtension(t *testing.T) {
	cases := []struct {
		filename string
		expected string
	}{
		{"photo.JPG", "jpg"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"dir/image.png", "png"},
	}

	for _, tc := range cases {
		if got := GetFileExtension(tc.filename); got != tc.expected {
			t.Errorf("GetFileExtension(%q) = %q, want %q", tc.filename, got, tc.expected)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.jpeg", "c.PNG", "d.webp"} {
		if !IsImageFile(name) {
			t.Errorf("Expected %q to be an image file", name)
		}
	}
	for _, name := range []string{"a.txt", "b.exe", "noext"} {
		if IsImageFile(name) {
			t.Errorf("Expected %q not to be an image file", name)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		size     int64
		expected string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 << 20, "5.0 MB"},
	}

	for _, tc := range cases {
		if got := FormatFileSize(tc.size); got != tc.expected {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tc.size, got, tc.expected)
		}
	}
}
