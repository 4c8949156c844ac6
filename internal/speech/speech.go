// Package speech is the boundary to the speech-to-text and text-to-speech
// capabilities. Both are consumed as opaque services; audio container
// conversion is the caller's concern.
package speech

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/openai/openai-go"
)

// Transcriber converts spoken audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Speaker converts answer text to spoken audio bytes.
type Speaker interface {
	Speak(ctx context.Context, text string) ([]byte, error)
}

// OpenAITranscriber implements Transcriber on the Whisper transcription API.
type OpenAITranscriber struct {
	client *openai.Client
}

// NewOpenAITranscriber creates a Transcriber.
func NewOpenAITranscriber(client *openai.Client) *OpenAITranscriber {
	return &OpenAITranscriber{client: client}
}

// Transcribe sends the audio stream for transcription and returns the
// trimmed transcript.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(audio, filename, "application/octet-stream"),
		Model: openai.AudioModelWhisper1,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// OpenAISpeaker implements Speaker on the OpenAI speech API.
type OpenAISpeaker struct {
	client *openai.Client
	voice  openai.AudioSpeechNewParamsVoice
}

// NewOpenAISpeaker creates a Speaker. An empty voice selects "alloy".
func NewOpenAISpeaker(client *openai.Client, voice string) *OpenAISpeaker {
	v := openai.AudioSpeechNewParamsVoice(voice)
	if voice == "" {
		v = openai.AudioSpeechNewParamsVoiceAlloy
	}
	return &OpenAISpeaker{client: client, voice: v}
}

// Speak synthesizes the text and returns the raw audio bytes.
func (s *OpenAISpeaker) Speak(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModelTTS1,
		Input: text,
		Voice: s.voice,
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read synthesized audio: %w", err)
	}
	return audio, nil
}
