package directive

import "testing"

func TestImage(t *testing.T) {
	got := Image("/home/u/.cache/overlay-art/covers/comp_ab.png", 170, 540, 600, 100)
	want := "${image /home/u/.cache/overlay-art/covers/comp_ab.png -p 170,540 -s 600x100}"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestTextRun(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"color", Color("#E0987A"), "${color #E0987A}"},
		{"color without hash", Color("a8532f"), "${color #a8532f}"},
		{"font", Font("Clash Display", 18), "${font Clash Display:size=18}"},
		{
			"run",
			TextRun(120, Color("#E0987A"), Font("Clash Display", 14), "offline"),
			"${goto 120}${color #E0987A}${font Clash Display:size=14}offline${font}",
		},
		{"bare run", TextRun(0, "", "", "x"), "${goto 0}x${font}"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
