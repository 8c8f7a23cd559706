package slug

import (
	"testing"

	"github.com/dtnitsch/blogger2hugo/models"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already clean",
			in:   "hello-world",
			want: "hello-world",
		},
		{
			name: "uppercase lowered",
			in:   "Hello-World",
			want: "hello-world",
		},
		{
			name: "spaces and underscores become dashes",
			in:   "my first_post",
			want: "my-first-post",
		},
		{
			name: "encoded spaces become dashes",
			in:   "my%20photo",
			want: "my-photo",
		},
		{
			name: "punctuation stripped to dashes",
			in:   "Hello, World!",
			want: "hello-world",
		},
		{
			name: "dash runs collapse",
			in:   "a -- b",
			want: "a-b",
		},
		{
			name: "edge dashes trimmed",
			in:   "-trimmed-",
			want: "trimmed",
		},
		{
			name: "dots survive for filenames",
			in:   "photo.v2.png",
			want: "photo.v2.png",
		},
		{
			name: "everything unsafe",
			in:   "!!!",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDerive_LegacyURL(t *testing.T) {
	rec := models.PostRecord{
		ID:        "tag:blogger.com,1999:blog-123.post-456",
		Title:     "Hello, World!",
		LegacyURL: "/2015/03/hello-world.html",
	}

	m := Derive(rec)

	if m.Slug != "hello-world" {
		t.Errorf("Slug = %q, want %q", m.Slug, "hello-world")
	}
	if m.NewPath != "/posts/hello-world/" {
		t.Errorf("NewPath = %q, want %q", m.NewPath, "/posts/hello-world/")
	}
	if len(m.Aliases) != 1 || m.Aliases[0] != "/2015/03/hello-world.html" {
		t.Errorf("Aliases = %v, want the legacy path", m.Aliases)
	}
	if !m.LegacyMatched {
		t.Error("LegacyMatched = false, want true for /yyyy/mm/name.html")
	}
}

func TestDerive_IrregularLegacyURL(t *testing.T) {
	rec := models.PostRecord{
		ID:        "tag:blogger.com,1999:blog-123.post-456",
		Title:     "Odd One",
		LegacyURL: "/p/about-me.html",
	}

	m := Derive(rec)

	if m.Slug != "about-me" {
		t.Errorf("Slug = %q, want %q", m.Slug, "about-me")
	}
	if m.LegacyMatched {
		t.Error("LegacyMatched = true, want false for a non-dated path")
	}
	// The alias still points at the real legacy location
	if len(m.Aliases) != 1 || m.Aliases[0] != "/p/about-me.html" {
		t.Errorf("Aliases = %v, want the original path", m.Aliases)
	}
}

func TestDerive_TitleFallback(t *testing.T) {
	rec := models.PostRecord{
		ID:    "tag:blogger.com,1999:blog-123.post-456",
		Title: "My Draft Post",
	}

	m := Derive(rec)

	if m.Slug != "my-draft-post" {
		t.Errorf("Slug = %q, want %q", m.Slug, "my-draft-post")
	}
	if len(m.Aliases) != 0 {
		t.Errorf("Aliases = %v, want none without a legacy URL", m.Aliases)
	}
}

func TestDerive_IDFallback(t *testing.T) {
	rec := models.PostRecord{
		ID:    "tag:blogger.com,1999:blog-123.post-456789",
		Title: "!!!",
	}

	m := Derive(rec)

	if m.Slug != "456789" {
		t.Errorf("Slug = %q, want the atom id tail %q", m.Slug, "456789")
	}
}

func TestRegistry_Collisions(t *testing.T) {
	reg := NewRegistry()

	first, collided := reg.Claim("launch")
	if first != "launch" || collided {
		t.Errorf("first Claim = (%q, %v), want (%q, false)", first, collided, "launch")
	}

	second, collided := reg.Claim("launch")
	if second != "launch-2" || !collided {
		t.Errorf("second Claim = (%q, %v), want (%q, true)", second, collided, "launch-2")
	}

	third, collided := reg.Claim("launch")
	if third != "launch-3" || !collided {
		t.Errorf("third Claim = (%q, %v), want (%q, true)", third, collided, "launch-3")
	}
}

func TestRegistry_SuffixAlreadyTaken(t *testing.T) {
	reg := NewRegistry()

	// A post is natively slugged launch-2 before launch collides into it.
	if got, _ := reg.Claim("launch-2"); got != "launch-2" {
		t.Fatalf("Claim(launch-2) = %q, want %q", got, "launch-2")
	}
	if got, _ := reg.Claim("launch"); got != "launch" {
		t.Fatalf("Claim(launch) = %q, want %q", got, "launch")
	}

	got, collided := reg.Claim("launch")
	if got != "launch-3" || !collided {
		t.Errorf("colliding Claim = (%q, %v), want (%q, true)", got, collided, "launch-3")
	}
}

func TestFinalize_RewritesPath(t *testing.T) {
	reg := NewRegistry()

	m1 := Derive(models.PostRecord{Title: "Launch"})
	m2 := Derive(models.PostRecord{Title: "Launch!"})

	if collided := Finalize(&m1, reg); collided {
		t.Error("first Finalize collided, want clean claim")
	}
	if collided := Finalize(&m2, reg); !collided {
		t.Error("second Finalize did not collide, want suffix")
	}

	if m2.Slug != "launch-2" {
		t.Errorf("m2.Slug = %q, want %q", m2.Slug, "launch-2")
	}
	if m2.NewPath != "/posts/launch-2/" {
		t.Errorf("m2.NewPath = %q, want %q", m2.NewPath, "/posts/launch-2/")
	}
}
