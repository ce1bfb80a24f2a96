// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"roleplay-coach-go/internal/config"
	"roleplay-coach-go/internal/handler"
	"roleplay-coach-go/internal/middleware"
	"roleplay-coach-go/internal/repository"
	"roleplay-coach-go/internal/service"
	"roleplay-coach-go/pkg/database"
	"roleplay-coach-go/pkg/kafka"
	"roleplay-coach-go/pkg/llm"
	"roleplay-coach-go/pkg/log"
	"roleplay-coach-go/pkg/metrics"
	"roleplay-coach-go/pkg/storage"
	"roleplay-coach-go/pkg/tts"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "roleplay-server",
		Short: "Customer role-play simulation server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "./configs/config.yaml", "配置文件路径")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	// 1. 初始化配置
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化 Repository
	sessionRepo := repository.NewSessionRepository()
	speechCache, err := newSpeechCache(cfg)
	if err != nil {
		return err
	}

	// 4. 初始化指标与事件发布
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics(sessionRepo.Count)
	}

	var publisher service.EventPublisher = service.NewNoopPublisher()
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer func() {
			if err := producer.Close(); err != nil {
				log.Errorf("关闭 Kafka 生产者失败: %v", err)
			}
		}()
		publisher = producer
		log.Infof("Kafka 事件发布已启用, topic: %s", cfg.Kafka.Topic)
	}

	// 5. 初始化 Service (依赖注入)
	llmClient := llm.NewClient(cfg.LLM)
	synthesizer := tts.NewEdgeClient(cfg.Speech)
	dialogueService := service.NewDialogueService(sessionRepo, llmClient, cfg.LLM, cfg.Dialogue, m)
	evaluationService := service.NewEvaluationService(sessionRepo, publisher, m)
	speechService := service.NewSpeechService(synthesizer, speechCache, cfg.Speech.OutputFormat, m)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), middleware.Metrics(m), gin.Recovery())

	// 7. 注册路由
	handler.RegisterRoutes(r, handler.Handlers{
		Roleplay:     handler.NewRoleplayHandler(dialogueService, evaluationService),
		Catalog:      handler.NewCatalogHandler(),
		Speech:       handler.NewSpeechHandler(speechService),
		Health:       handler.NewHealthHandler(cfg.Server.ServiceName),
		Chat:         handler.NewChatHandler(dialogueService),
		Conversation: handler.NewConversationHandler(service.NewConversationService(sessionRepo)),
	})
	if m != nil {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}
	// 等待尚未发送完的评分事件
	evaluationService.Wait()

	log.Info("服务已优雅关闭")
	return nil
}

// newSpeechCache 按配置选择音频缓存后端。
func newSpeechCache(cfg config.Config) (repository.SpeechCache, error) {
	switch cfg.Speech.Cache.Backend {
	case config.CacheBackendRedis:
		rdb, err := database.NewRedis(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("初始化 Redis 失败: %w", err)
		}
		log.Infof("语音缓存使用 Redis: %s", cfg.Redis.Addr)
		return repository.NewRedisSpeechCache(rdb, cfg.Speech.Cache.Prefix, cfg.Speech.Cache.TTL), nil
	case config.CacheBackendMinIO:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("初始化 MinIO 失败: %w", err)
		}
		log.Infof("语音缓存使用 MinIO bucket: %s", cfg.MinIO.BucketName)
		return repository.NewMinIOSpeechCache(client, cfg.MinIO.BucketName, cfg.Speech.Cache.Prefix), nil
	default:
		return repository.NewNoopSpeechCache(), nil
	}
}
