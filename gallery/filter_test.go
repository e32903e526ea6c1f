package gallery

import (
	"testing"

	"golang.org/x/text/language"
)

func TestFilter_Match(t *testing.T) {
	f, err := NewFilter(DefaultExtensions, nil)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		want bool
	}{
		{"img1.jpg", true},
		{"IMG1.JPG", true},
		{"photo.JpEg", true},
		{"anim.gif", true},
		{"pic.webp", true},
		{"logo.png", true},
		{"notes.txt", false},
		{"archive.jpg.zip", false},
		{"noext", false},
		{"trailingdot.", false},
		{".png", true},
	}
	for _, tt := range tests {
		if got := f.Match(tt.name); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFilter_Include(t *testing.T) {
	f, err := NewFilter([]string{".JPG"}, []string{"slide-*"})
	if err != nil {
		t.Fatal(err)
	}
	if !f.Match("Slide-01.jpg") {
		t.Error("expected case-insensitive include match")
	}
	if f.Match("other.jpg") {
		t.Error("name outside include patterns matched")
	}
	if _, err := NewFilter(DefaultExtensions, []string{"[unclosed"}); err == nil {
		t.Error("expected invalid pattern error")
	}
}

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"images/", "images/", false},
		{"images", "images/", false},
		{"./images/", "images/", false},
		{"/images//2024/", "images/2024/", false},
		{"", "", false},
		{"/", "", false},
		{`images\2024`, "images/2024/", false},
		{"../etc/", "", true},
		{"images/../../x", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizePrefix(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizePrefix(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizePrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortNames_Numeric(t *testing.T) {
	names := []string{"img10.jpg", "img2.jpg", "img1.jpg", "b.png", "a.png"}
	SortNames(names, language.Und)
	want := []string{"a.png", "b.png", "img1.jpg", "img2.jpg", "img10.jpg"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("SortNames = %v, want %v", names, want)
		}
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Prefix != DefaultPrefix || len(cfg.AllowedPrefixes) != 1 || cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("defaults = %+v", cfg)
	}

	bad := Config{Prefix: "../x"}
	bad.ApplyDefaults()
	if err := bad.Validate(); err == nil {
		t.Error("expected error for escaping prefix")
	}
	badLocale := Config{Locale: "not a locale!"}
	badLocale.ApplyDefaults()
	if err := badLocale.Validate(); err == nil {
		t.Error("expected error for invalid locale")
	}
}
