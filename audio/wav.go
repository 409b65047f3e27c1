package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// wavHeader is the canonical 44-byte RIFF/WAVE header for PCM files.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

type WAVInfo struct {
	Duration      float64
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// ProbeWAV reads the RIFF header of a WAV file and derives duration from
// the data size and byte rate. Files whose data chunk is not at the
// canonical offset fall back to the RIFF chunk size.
func ProbeWAV(path string) (*WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var h wavHeader
	if err := binary.Read(f, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("wav header: %w", err)
	}
	if !bytes.Equal(h.ChunkID[:], []byte("RIFF")) || !bytes.Equal(h.Format[:], []byte("WAVE")) {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}
	if h.SampleRate == 0 || h.ByteRate == 0 {
		return nil, fmt.Errorf("wav header has zero rate")
	}

	dataSize := h.Subchunk2Size
	if !bytes.Equal(h.Subchunk2ID[:], []byte("data")) && h.ChunkSize > 36 {
		dataSize = h.ChunkSize - 36
	}

	return &WAVInfo{
		Duration:      float64(dataSize) / float64(h.ByteRate),
		SampleRate:    int(h.SampleRate),
		Channels:      int(h.NumChannels),
		BitsPerSample: int(h.BitsPerSample),
	}, nil
}
