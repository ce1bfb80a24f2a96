package repository

import (
	"context"
	"roleplay-coach-go/pkg/tts"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisSpeechCacheRoundTrip(t *testing.T) {
	mr, client := newMiniRedis(t)
	cache := NewRedisSpeechCache(client, "tts", time.Hour)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "k1"); err != nil || ok {
		t.Fatalf("Expected miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.Set(ctx, "k1", []byte("mp3-bytes")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	audio, ok, err := cache.Get(ctx, "k1")
	if err != nil || !ok || string(audio) != "mp3-bytes" {
		t.Fatalf("Expected hit, got %q ok=%v err=%v", audio, ok, err)
	}

	if ttl := mr.TTL("tts:audio:k1"); ttl != time.Hour {
		t.Errorf("Expected 1h TTL, got %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, ok, _ := cache.Get(ctx, "k1"); ok {
		t.Error("Expected entry to expire")
	}
}

func TestRedisSpeechCacheUnavailable(t *testing.T) {
	mr, client := newMiniRedis(t)
	cache := NewRedisSpeechCache(client, "tts", time.Hour)
	mr.Close()

	if _, _, err := cache.Get(context.Background(), "k1"); err == nil {
		t.Error("Expected error when redis is down")
	}
}

func TestSpeechCacheKey(t *testing.T) {
	guy := tts.Voice{Name: "en-US-GuyNeural", Rate: "+15%", Pitch: "-5Hz", Volume: "+0%"}
	aria := tts.Voice{Name: "en-US-AriaNeural", Rate: "+0%", Pitch: "+0Hz", Volume: "+0%"}
	const format = "audio-24khz-96kbitrate-mono-mp3"

	if SpeechCacheKey(guy, format, "hi") != SpeechCacheKey(guy, format, "hi") {
		t.Error("Key should be stable")
	}
	if SpeechCacheKey(guy, format, "hi") == SpeechCacheKey(aria, format, "hi") {
		t.Error("Different voices must not share a key")
	}
	if SpeechCacheKey(guy, format, "hi") == SpeechCacheKey(guy, format, "hello") {
		t.Error("Different text must not share a key")
	}
}

func TestNoopSpeechCache(t *testing.T) {
	cache := NewNoopSpeechCache()
	_ = cache.Set(context.Background(), "k", []byte("a"))
	if _, ok, err := cache.Get(context.Background(), "k"); ok || err != nil {
		t.Errorf("Noop cache should always miss, got ok=%v err=%v", ok, err)
	}
}
