package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// TTSService generates and caches te reo Māori audio clips
type TTSService struct {
	audioDir string
	lang     string
	client   *http.Client
}

const ttsRequestTimeout = 10 * time.Second

// NewTTSService creates a new TTS service. Clips are cached as MP3 files
// under audioDir and regenerated only when missing.
func NewTTSService(audioDir string) *TTSService {
	return &TTSService{
		audioDir: audioDir,
		lang:     "mi",
		client:   &http.Client{Timeout: ttsRequestTimeout},
	}
}

// GenerateAudioFile converts a phrase to speech and saves it as MP3.
// Returns the filename (not full path) on success.
func (s *TTSService) GenerateAudioFile(ctx context.Context, text string) (string, error) {
	filename := fmt.Sprintf("reo_%s.mp3", sanitizeFilename(text))
	path := filepath.Join(s.audioDir, filename)

	// Cached clip wins
	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := s.generateUsingGoogleTTS(ctx, text, path); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}

	return filename, nil
}

// sanitizeFilename flattens a phrase into a safe filename fragment.
// Macrons are folded so "He rākau" and "he rakau" share one clip name spelling.
func sanitizeFilename(text string) string {
	folded := strings.Map(func(r rune) rune {
		switch r {
		case 'ā', 'Ā':
			return 'a'
		case 'ē', 'Ē':
			return 'e'
		case 'ī', 'Ī':
			return 'i'
		case 'ō', 'Ō':
			return 'o'
		case 'ū', 'Ū':
			return 'u'
		}
		return unicode.ToLower(r)
	}, strings.TrimSpace(text))

	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, folded)
}

// generateUsingGoogleTTS fetches a clip from Google Translate's
// text-to-speech endpoint, which supports te reo Māori without an API key.
func (s *TTSService) generateUsingGoogleTTS(ctx context.Context, text, outputPath string) error {
	baseURL := "https://translate.google.com/translate_tts"

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", s.lang)
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	return nil
}

// BatchGenerateAudio generates audio clips for multiple phrases
func (s *TTSService) BatchGenerateAudio(ctx context.Context, phrases []string) (map[string]string, error) {
	results := make(map[string]string)

	for _, phrase := range phrases {
		filename, err := s.GenerateAudioFile(ctx, phrase)
		if err != nil {
			return results, fmt.Errorf("failed to generate audio for %q: %w", phrase, err)
		}
		results[phrase] = filename
	}

	return results, nil
}

// AudioFilePath resolves a cached clip filename to its path on disk.
// Returns an error if the name escapes the audio directory or is missing.
func (s *TTSService) AudioFilePath(filename string) (string, error) {
	if filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid audio filename: %s", filename)
	}
	path := filepath.Join(s.audioDir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("audio file not found: %s", filename)
	}
	return path, nil
}
