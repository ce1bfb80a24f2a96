package service

import (
	"context"
	"errors"
	"fmt"
	"roleplay-coach-go/internal/catalog"
	"roleplay-coach-go/internal/repository"
	"roleplay-coach-go/pkg/log"
	"roleplay-coach-go/pkg/metrics"
	"roleplay-coach-go/pkg/tts"
	"strings"
)

var (
	// ErrInvalidSpeechRequest 表示缺少文本或人设。
	ErrInvalidSpeechRequest = errors.New("text and persona are required")
	// ErrSpeechSynthesisFailed 表示外部 TTS 服务失败，不提供降级音频。
	ErrSpeechSynthesisFailed = errors.New("speech synthesis failed")
)

// SpeechService 定义了语音合成的接口。
type SpeechService interface {
	Synthesize(ctx context.Context, text, personaID string) ([]byte, error)
}

type speechService struct {
	synth        tts.Synthesizer
	cache        repository.SpeechCache
	outputFormat string
	metrics      *metrics.Metrics
}

// NewSpeechService 创建一个新的 SpeechService 实例。cache 为 nil 时不缓存。
func NewSpeechService(synth tts.Synthesizer, cache repository.SpeechCache, outputFormat string, m *metrics.Metrics) SpeechService {
	if cache == nil {
		cache = repository.NewNoopSpeechCache()
	}
	return &speechService{synth: synth, cache: cache, outputFormat: outputFormat, metrics: m}
}

// Synthesize 按人设音色合成语音。缓存读写失败只记录日志，不影响合成。
func (s *speechService) Synthesize(ctx context.Context, text, personaID string) ([]byte, error) {
	if strings.TrimSpace(text) == "" || personaID == "" {
		return nil, ErrInvalidSpeechRequest
	}

	voice := catalog.VoiceFor(personaID)
	key := repository.SpeechCacheKey(voice, s.outputFormat, text)

	audio, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warnw("Speech cache lookup failed", "key", key, "error", err)
	}
	if ok {
		s.metrics.ObserveSpeech("hit")
		return audio, nil
	}

	audio, err = s.synth.Synthesize(ctx, text, voice)
	if err != nil {
		s.metrics.ObserveSpeech("error")
		return nil, fmt.Errorf("%w: %w", ErrSpeechSynthesisFailed, err)
	}
	s.metrics.ObserveSpeech("miss")

	if err := s.cache.Set(ctx, key, audio); err != nil {
		log.Warnw("Failed to cache synthesized speech", "key", key, "error", err)
	}
	return audio, nil
}
