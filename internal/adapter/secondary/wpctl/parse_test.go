package wpctl

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"wpvolume/internal/domain"
)

func TestParseSinkLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want domain.Sink
	}{{
		name: "default with tag",
		line: "*  1.  Built-in Audio  [vol: 0.50]",
		want: domain.Sink{ID: 1, DisplayName: "Built-in Audio", IsDefault: true},
	}, {
		name: "plain",
		line: "   2.  USB Headset",
		want: domain.Sink{ID: 2, DisplayName: "USB Headset"},
	}, {
		name: "tree glyph prefix",
		line: " │      49. Built-in Audio Analog Stereo        [vol: 0.40]",
		want: domain.Sink{ID: 49, DisplayName: "Built-in Audio Analog Stereo"},
	}, {
		name: "tree glyph prefix default",
		line: " │  *   61. USB Headset                         [vol: 0.75]",
		want: domain.Sink{ID: 61, DisplayName: "USB Headset", IsDefault: true},
	}, {
		name: "name stops at first bracket",
		line: "3. Speakers [vol: 0.10] trailing",
		want: domain.Sink{ID: 3, DisplayName: "Speakers"},
	}, {
		name: "no name",
		line: "4.",
		want: domain.Sink{ID: 4},
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSinkLine(tc.line)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected sink: got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseSinkLineErrors(t *testing.T) {
	for _, line := range []string{"", " │  ", "*", "abc. Speakers"} {
		if _, err := ParseSinkLine(line); !errors.Is(err, domain.ErrMalformedStatus) {
			t.Errorf("line %q: got error %v, want ErrMalformedStatus", line, err)
		}
	}
}

func TestParseSinksFixture(t *testing.T) {
	data, err := os.ReadFile("testdata/status.txt")
	if err != nil {
		t.Fatal(err)
	}

	got, err := ParseSinks(string(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.Sink{
		{ID: 49, DisplayName: "Built-in Audio Analog Stereo"},
		{ID: 61, DisplayName: "USB Headset", IsDefault: true},
		{ID: 73, DisplayName: "HDMI / DisplayPort 2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected sinks: got %s, want %s", spew.Sdump(got), spew.Sdump(want))
	}
}

func TestParseSinksCount(t *testing.T) {
	for n := 0; n <= 5; n++ {
		var b strings.Builder
		b.WriteString("Audio\n ├─ Sinks:\n")
		for i := 0; i < n; i++ {
			b.WriteString(" │      ")
			b.WriteString(string(rune('1' + i)))
			b.WriteString(". Sink\n")
		}
		b.WriteString(" │  \n ├─ Sources:\n")

		sinks, err := ParseSinks(b.String())
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if len(sinks) != n {
			t.Fatalf("n=%d: got %d sinks", n, len(sinks))
		}
		for i, s := range sinks {
			if s.ID != i+1 {
				t.Fatalf("n=%d: sink %d has id %d", n, i, s.ID)
			}
		}
	}
}

func TestParseSinksMalformed(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{"empty", ""},
		{"no sinks marker", " ├─ Sources:\n"},
		{"no sources marker", " ├─ Sinks:\n │  1. A\n"},
		{"wrong order", " ├─ Sources:\n │\n ├─ Sinks:\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseSinks(tc.out); !errors.Is(err, domain.ErrMalformedStatus) {
				t.Fatalf("got error %v, want ErrMalformedStatus", err)
			}
		})
	}
}

func TestParseVolume(t *testing.T) {
	tests := []struct {
		out  string
		want domain.VolumeState
	}{
		{"Volume: 0.37", domain.VolumeState{Level: 37}},
		{"Volume: 0.37 [MUTED]\n", domain.VolumeState{Level: 37, Muted: true}},
		{"Volume: 0.57\n", domain.VolumeState{Level: 57}},
		{"Volume: 1.00", domain.VolumeState{Level: 100}},
		{"Volume: 0.00 [MUTED]", domain.VolumeState{Muted: true}},
	}
	for _, tc := range tests {
		got, err := ParseVolume(tc.out)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.out, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %+v, want %+v", tc.out, got, tc.want)
		}
	}
}

func TestParseVolumeMalformed(t *testing.T) {
	for _, out := range []string{"", "Volume:", "Volume: loud"} {
		if _, err := ParseVolume(out); !errors.Is(err, domain.ErrMalformedVolume) {
			t.Errorf("%q: got error %v, want ErrMalformedVolume", out, err)
		}
	}
}

func TestParseSinksSourcesRightAfterSinks(t *testing.T) {
	sinks, err := ParseSinks("Audio\n ├─ Sinks:\n ├─ Sources:\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sinks == nil || len(sinks) != 0 {
		t.Fatalf("expected empty sink list, got %#v", sinks)
	}
}
