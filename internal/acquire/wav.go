package acquire

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

const (
	targetChannels   = 1
	targetSampleRate = 16000
)

// Format summarizes a WAV header.
type Format struct {
	Channels   int
	SampleRate int
	BitDepth   int
}

// IsTarget reports whether the audio is mono 16 kHz.
func (f Format) IsTarget() bool {
	return f.Channels == targetChannels && f.SampleRate == targetSampleRate
}

func (f Format) String() string {
	return fmt.Sprintf("%d ch %d Hz %d-bit", f.Channels, f.SampleRate, f.BitDepth)
}

// ReadFormat decodes the WAV header at path.
func ReadFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Format{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return Format{}, fmt.Errorf("invalid wav %s: %w", path, err)
		}
		return Format{}, fmt.Errorf("invalid wav %s", path)
	}
	return Format{
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
	}, nil
}
