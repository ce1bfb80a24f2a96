package repository

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"roleplay-coach-go/pkg/tts"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/minio/minio-go/v7"
)

// SpeechCache 缓存已合成的音频，避免相同文本与音色重复调用 TTS 服务。
type SpeechCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, audio []byte) error
}

// SpeechCacheKey 由音色参数、输出格式与文本计算缓存键。
func SpeechCacheKey(voice tts.Voice, outputFormat, text string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|", voice.Name, voice.Rate, voice.Pitch, voice.Volume, outputFormat)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

type noopSpeechCache struct{}

// NewNoopSpeechCache 返回一个不缓存任何内容的 SpeechCache。
func NewNoopSpeechCache() SpeechCache { return noopSpeechCache{} }

func (noopSpeechCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (noopSpeechCache) Set(context.Context, string, []byte) error         { return nil }

type redisSpeechCache struct {
	redisClient *redis.Client
	prefix      string
	ttl         time.Duration
}

// NewRedisSpeechCache 创建基于 Redis 的音频缓存。
func NewRedisSpeechCache(redisClient *redis.Client, prefix string, ttl time.Duration) SpeechCache {
	return &redisSpeechCache{redisClient: redisClient, prefix: prefix, ttl: ttl}
}

func (c *redisSpeechCache) key(key string) string {
	return fmt.Sprintf("%s:audio:%s", c.prefix, key)
}

func (c *redisSpeechCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	audio, err := c.redisClient.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached audio: %w", err)
	}
	return audio, true, nil
}

func (c *redisSpeechCache) Set(ctx context.Context, key string, audio []byte) error {
	if err := c.redisClient.Set(ctx, c.key(key), audio, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache audio: %w", err)
	}
	return nil
}

type minioSpeechCache struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinIOSpeechCache 创建基于 MinIO 对象存储的音频缓存，对象过期交由存储桶生命周期策略处理。
func NewMinIOSpeechCache(client *minio.Client, bucket, prefix string) SpeechCache {
	return &minioSpeechCache{client: client, bucket: bucket, prefix: prefix}
}

func (c *minioSpeechCache) objectName(key string) string {
	return fmt.Sprintf("%s/%s.mp3", c.prefix, key)
}

func (c *minioSpeechCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, c.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get audio object: %w", err)
	}
	defer obj.Close()

	// GetObject 是惰性的，错误在 Stat/Read 时才出现
	if _, err := obj.Stat(); err != nil {
		if isNoSuchKey(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to stat audio object: %w", err)
	}
	audio, err := io.ReadAll(obj)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read audio object: %w", err)
	}
	return audio, true, nil
}

func (c *minioSpeechCache) Set(ctx context.Context, key string, audio []byte) error {
	_, err := c.client.PutObject(ctx, c.bucket, c.objectName(key), bytes.NewReader(audio), int64(len(audio)), minio.PutObjectOptions{
		ContentType: "audio/mpeg",
	})
	if err != nil {
		return fmt.Errorf("failed to put audio object: %w", err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
