// Package tts provides a text-to-speech client for the Edge read-aloud service.
package tts

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"roleplay-coach-go/internal/config"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	secMSGECVersion = "1-130.0.2849.68"
	edgeOrigin      = "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold"
	edgeUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36 Edg/130.0.0.0"
	// Windows file time epoch 与 Unix epoch 的秒差
	winEpochOffset = 11644473600
)

// ErrNoAudio 表示服务端结束了本轮合成但没有返回任何音频。
var ErrNoAudio = errors.New("tts: no audio received")

// Voice 描述一次合成使用的音色与韵律参数。
type Voice struct {
	Name   string `json:"voice"`
	Rate   string `json:"rate"`
	Pitch  string `json:"pitch"`
	Volume string `json:"volume"`
}

// Synthesizer 将文本合成为压缩后的单声道音频。
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error)
}

type edgeClient struct {
	cfg    config.SpeechConfig
	dialer *websocket.Dialer
	now    func() time.Time
}

// NewEdgeClient creates a Synthesizer backed by the Edge read-aloud websocket endpoint.
func NewEdgeClient(cfg config.SpeechConfig) Synthesizer {
	return &edgeClient{
		cfg: cfg,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// Synthesize 打开一个 websocket 连接，发送 speech.config 与 SSML，收集所有 audio 分帧直到 turn.end。
func (c *edgeClient) Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	connID := strings.ReplaceAll(uuid.NewString(), "-", "")
	header := http.Header{}
	header.Set("Origin", edgeOrigin)
	header.Set("User-Agent", edgeUserAgent)
	header.Set("Pragma", "no-cache")
	header.Set("Cache-Control", "no-cache")

	conn, resp, err := c.dialer.DialContext(ctx, c.endpointURL(connID), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to tts endpoint: %s: %w", resp.Status, err)
		}
		return nil, fmt.Errorf("failed to connect to tts endpoint: %w", err)
	}
	defer conn.Close()

	// ctx 取消时关闭连接，使阻塞中的 ReadMessage 立即返回
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(c.speechConfigMessage())); err != nil {
		return nil, fmt.Errorf("failed to send speech config: %w", err)
	}
	ssml, err := c.ssmlMessage(text, voice)
	if err != nil {
		return nil, err
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssml)); err != nil {
		return nil, fmt.Errorf("failed to send ssml: %w", err)
	}

	var audio bytes.Buffer
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("tts synthesis aborted: %w", ctx.Err())
			}
			return nil, fmt.Errorf("failed to read from tts stream: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			if strings.Contains(string(data), "Path:turn.end") {
				if audio.Len() == 0 {
					return nil, ErrNoAudio
				}
				return audio.Bytes(), nil
			}
		case websocket.BinaryMessage:
			chunk, err := parseAudioFrame(data)
			if err != nil {
				return nil, err
			}
			audio.Write(chunk)
		}
	}
}

func (c *edgeClient) endpointURL(connID string) string {
	q := url.Values{}
	q.Set("TrustedClientToken", c.cfg.TrustedClientToken)
	q.Set("Sec-MS-GEC", SecMSGEC(c.now(), c.cfg.TrustedClientToken))
	q.Set("Sec-MS-GEC-Version", secMSGECVersion)
	q.Set("ConnectionId", connID)
	return c.cfg.Endpoint + "?" + q.Encode()
}

func (c *edgeClient) timestamp() string {
	return c.now().UTC().Format("Mon Jan 02 2006 15:04:05 GMT-0700 (Coordinated Universal Time)")
}

func (c *edgeClient) speechConfigMessage() string {
	return "X-Timestamp:" + c.timestamp() + "\r\n" +
		"Content-Type:application/json; charset=utf-8\r\n" +
		"Path:speech.config\r\n\r\n" +
		`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"false"},"outputFormat":"` +
		c.cfg.OutputFormat + `"}}}}` + "\r\n"
}

func (c *edgeClient) ssmlMessage(text string, voice Voice) (string, error) {
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil {
		return "", fmt.Errorf("failed to escape ssml text: %w", err)
	}
	lang := c.cfg.Lang
	if lang == "" {
		lang = "en-US"
	}
	requestID := strings.ReplaceAll(uuid.NewString(), "-", "")
	ssml := fmt.Sprintf(
		"<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='%s'><voice name='%s'><prosody pitch='%s' rate='%s' volume='%s'>%s</prosody></voice></speak>",
		lang, voice.Name, voice.Pitch, voice.Rate, voice.Volume, escaped.String(),
	)
	return "X-RequestId:" + requestID + "\r\n" +
		"Content-Type:application/ssml+xml\r\n" +
		"X-Timestamp:" + c.timestamp() + "Z\r\n" +
		"Path:ssml\r\n\r\n" + ssml, nil
}

// parseAudioFrame 解析二进制分帧：前 2 字节为大端头部长度，随后是头部文本与音频数据。
func parseAudioFrame(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("tts frame too short: %d bytes", len(data))
	}
	headerLen := int(binary.BigEndian.Uint16(data[:2]))
	if 2+headerLen > len(data) {
		return nil, fmt.Errorf("tts frame header length %d exceeds frame size %d", headerLen, len(data))
	}
	header := data[2 : 2+headerLen]
	if !bytes.Contains(header, []byte("Path:audio")) {
		return nil, nil
	}
	return data[2+headerLen:], nil
}

// SecMSGEC 计算 Edge 服务要求的 Sec-MS-GEC 令牌：
// 以 5 分钟为粒度的 Windows file time（100ns 单位）拼接 trusted token 后取 SHA-256。
func SecMSGEC(now time.Time, trustedToken string) string {
	ticks := now.Unix() + winEpochOffset
	ticks -= ticks % 300
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d%s", ticks*10_000_000, trustedToken)))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
