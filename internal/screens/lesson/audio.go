package lesson

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abhisek/lingua/internal/llm"
)

// defaultPCMRate is the sample rate assumed for raw PCM without a rate
// parameter.
const defaultPCMRate = 24000

// writeSample stores audio in a temp file a system player can open. Raw
// 16-bit PCM is wrapped in a WAV container.
func writeSample(a *llm.Audio) (string, error) {
	data, ext := a.Data, ".bin"
	mediaType, params, err := mime.ParseMediaType(a.MIMEType)
	switch {
	case err == nil && (strings.EqualFold(mediaType, "audio/L16") || params["codec"] == "pcm"):
		rate, convErr := strconv.Atoi(params["rate"])
		if convErr != nil || rate <= 0 {
			rate = defaultPCMRate
		}
		data, ext = wavFromPCM(a.Data, rate), ".wav"
	case err == nil:
		if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
			ext = exts[0]
		}
	}

	f, err := os.CreateTemp("", "lingua-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	return f.Name(), nil
}

// wavFromPCM prefixes mono little-endian 16-bit samples with a RIFF header.
func wavFromPCM(pcm []byte, rate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	blockAlign := channels * bitsPerSample / 8

	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+len(pcm)))
	b.WriteString("WAVEfmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(rate))
	binary.Write(&b, binary.LittleEndian, uint32(rate*blockAlign))
	binary.Write(&b, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&b, binary.LittleEndian, uint16(bitsPerSample))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(len(pcm)))
	b.Write(pcm)
	return b.Bytes()
}

// readSample loads a recorded answer for a speaking task.
func readSample(path string) (*llm.Audio, error) {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	return &llm.Audio{MIMEType: mimeType, Data: data}, nil
}
