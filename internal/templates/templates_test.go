package templates

import (
	"reflect"
	"strings"
	"testing"

	"manifest-gallery/internal/manifest"
)

const validConfig = `
[image_urls]
cdn = "https://cdn.example/{}/img"
alt = "https://alt.example/i/{}"

[video_urls]
tube = "https://tube.example/search?q={}"
`

func TestLoadValidConfig(t *testing.T) {
	set, err := Load([]byte(validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := set.Labels(manifest.ModeImage); !reflect.DeepEqual(got, []string{"alt", "cdn"}) {
		t.Errorf("image labels = %v, want [alt cdn] (sorted)", got)
	}
	if got := set.Labels(manifest.ModeVideo); !reflect.DeepEqual(got, []string{"tube"}) {
		t.Errorf("video labels = %v, want [tube]", got)
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "not toml",
			config:  "IMAGE_BASE_URLS = {python: dict}",
			wantErr: "failed to parse",
		},
		{
			name:    "empty",
			config:  "",
			wantErr: "no image_urls or video_urls",
		},
		{
			name:    "missing placeholder",
			config:  "[image_urls]\ncdn = \"https://cdn.example/img\"\n",
			wantErr: "exactly one",
		},
		{
			name:    "two placeholders",
			config:  "[image_urls]\ncdn = \"https://cdn.example/{}/{}\"\n",
			wantErr: "exactly one",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.config))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSelectPreservesCallerOrder(t *testing.T) {
	set, err := Load([]byte(validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	selected, err := set.Select(manifest.ModeImage, []string{"cdn", "alt"})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(selected) != 2 || selected[0].Label != "cdn" || selected[1].Label != "alt" {
		t.Errorf("selection order not preserved: %+v", selected)
	}

	// Reversed selection keeps reversed order.
	reversed, err := set.Select(manifest.ModeImage, []string{"alt", "cdn"})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if reversed[0].Label != "alt" || reversed[1].Label != "cdn" {
		t.Errorf("reversed selection order not preserved: %+v", reversed)
	}
}

func TestSelectUnknownLabel(t *testing.T) {
	set, err := Load([]byte(validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := set.Select(manifest.ModeImage, []string{"nope"}); err == nil {
		t.Error("Select() with unknown label should fail")
	}
	// "tube" exists only for video.
	if _, err := set.Select(manifest.ModeImage, []string{"tube"}); err == nil {
		t.Error("Select() must not cross content kinds")
	}
}

func TestTemplateFill(t *testing.T) {
	tmpl := Template{Label: "cdn", Pattern: "https://cdn.example/{}/img"}

	if got := tmpl.Fill("sunset+beach"); got != "https://cdn.example/sunset+beach/img" {
		t.Errorf("Fill() = %q", got)
	}
}
