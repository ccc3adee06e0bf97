package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// WAV format codes we accept. Anything else (ADPCM, µ-law, ...) is rejected
// up front rather than decoded incorrectly.
const (
	wavFormatPCM        = 1
	wavFormatIEEEFloat  = 3
	wavFormatExtensible = 0xFFFE
)

// Metadata describes a decoded audio file.
type Metadata struct {
	Duration   float64 // seconds
	SampleRate int
	Channels   int
	BitDepth   int
}

// ReadWAVFile decodes a PCM or float WAV file into a mono Signal.
// Multi-channel audio is downmixed by averaging channels. Supported sample
// formats: 16/24/32-bit integer PCM and 32-bit IEEE float.
func ReadWAVFile(filename string) (*Signal, *Metadata, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat audio file: %w", err)
	}
	fileSize := st.Size()

	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return nil, nil, fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, nil, fmt.Errorf("%s: not a WAV file", filename)
	}

	var (
		format     uint16
		channels   int
		sampleRate int
		bitDepth   int
		haveFmt    bool
		data       []byte
	)

	// Walk the chunk list. Chunks other than fmt/data (LIST, fact, cue) are
	// skipped; chunk sizes are padded to even byte boundaries per RIFF.
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(f, hdr[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, nil, fmt.Errorf("failed to read chunk header: %w", err)
		}
		chunkID := string(hdr[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(hdr[4:8]))

		// The size field is untrusted input; never allocate more than the
		// file can actually hold.
		pos, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to locate %q chunk: %w", chunkID, err)
		}
		if chunkSize > fileSize-pos {
			return nil, nil, fmt.Errorf("%s: %q chunk size %d exceeds file size", filename, chunkID, chunkSize)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, nil, fmt.Errorf("%s: malformed fmt chunk (size %d)", filename, chunkSize)
			}
			buf := make([]byte, chunkSize)
			if _, err := io.ReadFull(f, buf); err != nil {
				return nil, nil, fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			format = binary.LittleEndian.Uint16(buf[0:2])
			channels = int(binary.LittleEndian.Uint16(buf[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(buf[4:8]))
			bitDepth = int(binary.LittleEndian.Uint16(buf[14:16]))
			if format == wavFormatExtensible && chunkSize >= 40 {
				// WAVE_FORMAT_EXTENSIBLE carries the real format in the
				// first two bytes of the subformat GUID.
				format = binary.LittleEndian.Uint16(buf[24:26])
			}
			haveFmt = true
		case "data":
			buf := make([]byte, chunkSize)
			if _, err := io.ReadFull(f, buf); err != nil {
				return nil, nil, fmt.Errorf("failed to read data chunk: %w", err)
			}
			data = buf
		default:
			if _, err := f.Seek(chunkSize, io.SeekCurrent); err != nil {
				return nil, nil, fmt.Errorf("failed to skip %q chunk: %w", chunkID, err)
			}
		}
		if chunkSize%2 == 1 {
			if _, err := f.Seek(1, io.SeekCurrent); err != nil {
				break
			}
		}
	}

	if !haveFmt {
		return nil, nil, fmt.Errorf("%s: missing fmt chunk", filename)
	}
	if data == nil {
		return nil, nil, fmt.Errorf("%s: missing data chunk", filename)
	}
	if channels < 1 || sampleRate <= 0 {
		return nil, nil, fmt.Errorf("%s: malformed fmt chunk (channels=%d rate=%d)", filename, channels, sampleRate)
	}

	samples, err := decodeSamples(data, format, bitDepth, channels)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filename, err)
	}

	sig := &Signal{Samples: samples, SampleRate: sampleRate}
	meta := &Metadata{
		Duration:   sig.Duration(),
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   bitDepth,
	}
	return sig, meta, nil
}

// decodeSamples converts interleaved PCM bytes to mono float64 samples in
// [-1, 1], averaging across channels.
func decodeSamples(data []byte, format uint16, bitDepth, channels int) ([]float64, error) {
	bytesPerSample := bitDepth / 8
	if bytesPerSample == 0 {
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
	frameSize := bytesPerSample * channels
	frames := len(data) / frameSize
	samples := make([]float64, frames)

	read := func(off int) (float64, error) {
		switch {
		case format == wavFormatPCM && bitDepth == 16:
			v := int16(binary.LittleEndian.Uint16(data[off:]))
			return float64(v) / 32768.0, nil
		case format == wavFormatPCM && bitDepth == 24:
			v := int32(data[off]) | int32(data[off+1])<<8 | int32(data[off+2])<<16
			if v&0x800000 != 0 {
				v |= ^0xFFFFFF // sign-extend
			}
			return float64(v) / 8388608.0, nil
		case format == wavFormatPCM && bitDepth == 32:
			v := int32(binary.LittleEndian.Uint32(data[off:]))
			return float64(v) / 2147483648.0, nil
		case format == wavFormatIEEEFloat && bitDepth == 32:
			bits := binary.LittleEndian.Uint32(data[off:])
			return float64(math.Float32frombits(bits)), nil
		default:
			return 0, fmt.Errorf("unsupported WAV format %d with bit depth %d", format, bitDepth)
		}
	}

	for i := 0; i < frames; i++ {
		base := i * frameSize
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			v, err := read(base + ch*bytesPerSample)
			if err != nil {
				return nil, err
			}
			sum += v
		}
		samples[i] = sum / float64(channels)
	}
	return samples, nil
}
