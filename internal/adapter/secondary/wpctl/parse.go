package wpctl

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"wpvolume/internal/domain"
)

const (
	sinksMarker   = "Sinks:"
	sourcesMarker = "Sources:"
	mutedTag      = "[MUTED]"
)

// ParseVolume reads a `Volume: 0.37 [MUTED]` reply. The level is scaled to
// 0-100 and rounded to the two decimals wpctl prints.
func ParseVolume(out string) (domain.VolumeState, error) {
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return domain.VolumeState{}, fmt.Errorf("%w: %q", domain.ErrMalformedVolume, out)
	}
	frac, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return domain.VolumeState{}, fmt.Errorf("%w: %v", domain.ErrMalformedVolume, err)
	}
	state := domain.VolumeState{Level: math.Round(frac*10000) / 100}
	for _, f := range fields[2:] {
		if f == mutedTag {
			state.Muted = true
			break
		}
	}
	return state, nil
}

// ParseSinks extracts the sink table from `status --nick` output.
// The table spans the lines after the "Sinks:" marker up to, but not
// including, the separator line that precedes "Sources:". When
// "Sources:" directly follows "Sinks:" the table is empty.
func ParseSinks(out string) ([]domain.Sink, error) {
	lines := strings.Split(out, "\n")

	start := indexContaining(lines, sinksMarker, 0)
	if start < 0 {
		return nil, fmt.Errorf("%w: no %q line", domain.ErrMalformedStatus, sinksMarker)
	}
	start++
	sources := indexContaining(lines, sourcesMarker, start)
	if sources < 0 {
		return nil, fmt.Errorf("%w: no %q line after sinks", domain.ErrMalformedStatus, sourcesMarker)
	}
	end := sources - 1
	if end < start {
		return []domain.Sink{}, nil
	}

	sinks := make([]domain.Sink, 0, end-start)
	for _, line := range lines[start:end] {
		sink, err := ParseSinkLine(line)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}

// ParseSinkLine parses one entry such as `│  *   46. Built-in Audio  [vol: 0.40]`.
func ParseSinkLine(line string) (domain.Sink, error) {
	fields := strings.Fields(line)
	i := 0
	for i < len(fields) && isTreeGlyph(fields[i]) {
		i++
	}

	var sink domain.Sink
	if i < len(fields) && fields[i] == "*" {
		sink.IsDefault = true
		i++
	}
	if i >= len(fields) {
		return domain.Sink{}, fmt.Errorf("%w: no sink id in %q", domain.ErrMalformedStatus, line)
	}
	id, err := strconv.Atoi(strings.TrimSuffix(fields[i], "."))
	if err != nil {
		return domain.Sink{}, fmt.Errorf("%w: sink id in %q: %v", domain.ErrMalformedStatus, line, err)
	}
	sink.ID = id

	name := fields[i+1:]
	for j, f := range name {
		if strings.HasPrefix(f, "[") {
			name = name[:j]
			break
		}
	}
	sink.DisplayName = strings.Join(name, " ")
	return sink, nil
}

func indexContaining(lines []string, marker string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.Contains(lines[i], marker) {
			return i
		}
	}
	return -1
}

// isTreeGlyph reports whether tok is made only of box-drawing characters,
// which wpctl uses to draw its object tree.
func isTreeGlyph(tok string) bool {
	for _, r := range tok {
		if r < 0x2500 || r > 0x257f {
			return false
		}
	}
	return utf8.RuneCountInString(tok) > 0
}
