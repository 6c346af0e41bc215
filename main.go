package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	_ "github.com/Xushengqwer/topic_service/docs" // 确保导入了 docs 包
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	// 导入项目包
	appConfig "github.com/Xushengqwer/topic_service/config"
	"github.com/Xushengqwer/topic_service/constant"
	"github.com/Xushengqwer/topic_service/controller"
	"github.com/Xushengqwer/topic_service/dependencies"
	"github.com/Xushengqwer/topic_service/mq/consumer"
	"github.com/Xushengqwer/topic_service/mq/producer"
	"github.com/Xushengqwer/topic_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/topic_service/repo/redis"
	"github.com/Xushengqwer/topic_service/router"
	"github.com/Xushengqwer/topic_service/service"
	"github.com/Xushengqwer/topic_service/tasks"

	// 导入公共模块
	sharedCore "github.com/Xushengqwer/go-common/core"
	sharedTracing "github.com/Xushengqwer/go-common/core/tracing"

	// 导入 Zap
	"go.uber.org/zap"
)

// @title           Topic Service API
// @version         1.0
// @description     话题服务，提供话题发布、图片点赞/认领、相似图片检索与热门榜单等功能。
// @termsOfService  http://swagger.io/terms/

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8082
// API 的主机和端口 (根据开发环境配置)

// @schemes http https
func main() {
	// --- 配置和基础设置 ---
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// 1. 加载配置
	var cfg appConfig.TopicConfig
	if err := sharedCore.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	// 打印最终生效的配置以供调试
	configBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Fatalf("无法序列化配置以进行打印: %v", err)
	}
	log.Printf("✅ 配置加载成功！最终生效的配置如下:\n%s\n", string(configBytes))

	// 2. 初始化 Logger
	logger, loggerErr := sharedCore.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		logger.Info("正在同步日志...")
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	logger.Info("Logger 初始化成功")

	// 3. 初始化 TracerProvider
	// TODO: otelTransport 用于需要追踪的 HTTP Client (例如服务间出站调用)，该服务目前暂时没有出站的请求
	var tracerShutdown func(context.Context) error // 用于优雅关停
	if cfg.TracerConfig.Enabled {
		var err error
		tracerShutdown, err = sharedTracing.InitTracerProvider(
			constant.ServiceName,
			constant.ServiceVersion,
			cfg.TracerConfig,
		)
		if err != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(err))
		}
		// 使用 defer 确保追踪系统在程序退出时关闭
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("正在关闭 TracerProvider...")
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			} else {
				logger.Info("TracerProvider 已成功关闭")
			}
		}()
		// COS 客户端的出站 HTTP 已带 otelhttp Transport，上传/删除会挂到同一条链路
		logger.Info("分布式追踪已初始化")
	} else {
		logger.Info("分布式追踪已禁用")
		tracerShutdown = func(ctx context.Context) error { return nil } // 提供一个空操作关闭函数
	}

	// --- 4. 初始化核心依赖 ---
	// 4.1 数据库 (MySQL)
	db, dbErr := dependencies.InitMySQL(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 MySQL 数据库失败", zap.Error(dbErr))
	}
	logger.Info("MySQL 数据库连接成功")

	// 4.2 Redis
	rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败", zap.Error(redisErr))
	}
	logger.Info("Redis 连接成功")

	// 4.3 COS 客户端 (话题配图存储)
	cos, cosError := dependencies.InitCOS(&cfg.COSConfig, logger)
	if cosError != nil {
		logger.Fatal("初始化 COS 客户端失败", zap.Error(cosError))
	}
	logger.Info("COS 客户端初始化成功")

	// 4.4 Kafka 生产者
	// eventProducer 单独持有接口值：只在真正创建了生产者时赋值，
	// 避免往服务层塞进包着 nil 指针的非 nil 接口
	var kafkaProducer *producer.KafkaProducer
	var eventProducer service.TopicEventProducer
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		eventProducer = kafkaProducer
		logger.Info("Kafka 生产者已初始化")
	} else {
		logger.Warn("未配置 Kafka brokers，话题领域事件将不发送")
	}

	// --- 5. 初始化数据仓库层 (Repositories) ---
	topicRepo := mysql.NewTopicRepository(db, logger)
	userRepo := mysql.NewUserRepository(db, logger)
	likeRepo := mysql.NewTopicLikeRepository(db)
	boardRepo := mysql.NewTopicBoardRepository(db)
	topicBatchRepo := mysql.NewTopicBatchOperationsRepository(db, logger, cfg.VisitSyncConfig)
	logger.Debug("MySQL Repositories 初始化完成")

	topicVisitRepo := redisrepo.NewTopicVisitRepository(
		rdb,
		logger,
		constant.BloomFilterDefaultSize,
		constant.BloomFilterDefaultHashes,
		constant.BloomFilterDefaultErrorRate,
		cfg.VisitSyncConfig,
	)
	cacheRepo := redisrepo.NewCache(topicVisitRepo, topicBatchRepo, rdb, logger)
	taskRepo := redisrepo.NewTopicTaskCacheImpl(rdb, logger, topicBatchRepo)
	logger.Debug("Redis Repositories 初始化完成")

	// --- 6. 初始化服务层 (Services) ---
	topicService := service.NewTopicService(topicRepo, userRepo, likeRepo, boardRepo, cos, topicVisitRepo, eventProducer, logger, cfg.ListConfig)
	likeService := service.NewLikeService(topicRepo, likeRepo, userRepo, logger)
	claimService := service.NewClaimService(topicRepo, boardRepo, userRepo, logger)
	similarService := service.NewSimilarService(topicRepo, logger)
	hotTopicService := service.NewHotTopicService(cacheRepo, logger)
	logger.Debug("Services 初始化完成")

	// --- 7. 初始化控制器层 (Controllers) ---
	topicController := controller.NewTopicController(topicService)
	imageController := controller.NewImageController(likeService, claimService, similarService)
	hotTopicController := controller.NewHotTopicController(hotTopicService)
	logger.Debug("Controllers 初始化完成")

	// --- 8. 初始化 Kafka 消费者 ---
	var consumers []*consumer.Consumer
	var consumerWg sync.WaitGroup // 用于等待所有消费者 goroutine 结束

	// 创建一个可以被取消的 context，用于通知所有消费者停止
	var consumerCtx, consumerCancel = context.WithCancel(context.Background())

	if len(cfg.KafkaConfig.Brokers) > 0 {
		groupID := cfg.KafkaConfig.ConsumerGroupID
		if groupID == "" {
			logger.Warn("Kafka ConsumerGroupID 未在配置中设置，将使用默认值 'topic_service_group'")
			groupID = "topic_service_group"
		}

		// --- 8.1 初始化并添加用户资料变更消费者 ---
		profileTopic := cfg.KafkaConfig.Topics.UserProfileUpdated
		if profileTopic != "" {
			profileHandler := consumer.NewUserProfileHandler(logger, userRepo, topicRepo)
			profileConsumer, err := consumer.NewConsumer(
				&cfg.KafkaConfig,
				groupID,
				profileTopic,
				profileHandler,
				logger,
			)
			if err != nil {
				logger.Fatal("初始化用户资料变更 Kafka 消费者失败", zap.Error(err))
			}
			consumers = append(consumers, profileConsumer)
			logger.Info("用户资料变更 Kafka 消费者已准备就绪", zap.String("topic", profileTopic))
		} else {
			logger.Warn("UserProfileUpdated topic 未配置，跳过用户资料变更消费者创建")
		}

		// --- 8.2 启动所有已初始化的消费者 ---
		if len(consumers) > 0 {
			logger.Info(fmt.Sprintf("准备启动 %d 个 Kafka 消费者...", len(consumers)))
			for _, c := range consumers {
				consumerWg.Add(1)
				go func(cons *consumer.Consumer) {
					defer consumerWg.Done()
					cons.Start(consumerCtx) // 传入可取消的 context
				}(c)
			}
		} else {
			logger.Warn("没有配置任何有效的 Kafka 消费者。")
		}

	} else {
		logger.Warn("Kafka Brokers 未配置，跳过所有 Kafka 消费者初始化。")
	}

	// --- 9. 初始化定时任务 ---
	syncTask := tasks.NewVisitCountSyncTask(topicVisitRepo, topicBatchRepo, logger)
	cacheTask := tasks.NewHotTopicsCacheTask(taskRepo, logger)
	logger.Info("后台定时任务已初始化并启动")

	// --- 10. 设置 Gin 路由器 ---
	// 将初始化好的控制器传递给 SetupRouter
	ginRouter := router.SetupRouter(logger, &cfg, topicController, imageController, hotTopicController)
	logger.Info("Gin 路由器已设置")

	// --- 11. 启动 HTTP 服务器 ---
	serverAddr := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: ginRouter,
	}

	// 启动 HTTP 服务器 goroutine
	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
		logger.Info("HTTP 服务器已停止监听")
	}()

	// --- 12. 实现优雅关停 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	logger.Info("收到关停信号，开始优雅退出...", zap.String("signal", receivedSignal.String()))

	// 创建关停超时 context
	shutdownCtx, shutdownCancelFunc := context.WithTimeout(context.Background(), 30*time.Second) // 30 秒关停超时
	defer shutdownCancelFunc()

	// a. 停止 HTTP 服务器 (允许处理完当前请求)
	logger.Info("正在关闭 HTTP 服务器...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭 HTTP 服务器失败", zap.Error(err))
	} else {
		logger.Info("HTTP 服务器已成功关闭")
	}

	// b. 关闭 Kafka 消费者
	if consumerCancel != nil {
		logger.Info("正在发送停止信号给 Kafka 消费者...")
		consumerCancel() // 通知所有使用 consumerCtx 的 goroutine 退出
	}
	logger.Info("等待 Kafka 消费者停止...")
	consumerWg.Wait() // 阻塞直到所有消费者 goroutine 都退出

	// 现在可以安全地关闭每个 consumer 的 reader
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Error("关闭某个 Kafka 消费者时出错", zap.Error(err))
		}
	}
	logger.Info("所有 Kafka 消费者已停止。")

	// c. 关闭 Kafka 生产者 (flush 未发出的消息)
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			logger.Error("关闭 Kafka 生产者失败", zap.Error(err))
		}
	}

	// d. 停止定时任务调度器 (等待正在执行的任务结束)
	logger.Info("正在停止定时任务...")
	syncDone := syncTask.Stop().Done()
	cacheDone := cacheTask.Stop().Done()

	// 收到信号后把对应 channel 置 nil，使其在后续 select 中被屏蔽
	for syncDone != nil || cacheDone != nil {
		select {
		case <-syncDone:
			logger.Info("浏览量同步任务已停止")
			syncDone = nil
		case <-cacheDone:
			logger.Info("热门话题缓存任务已停止")
			cacheDone = nil
		case <-shutdownCtx.Done():
			logger.Error("等待定时任务停止超时", zap.Error(shutdownCtx.Err()))
			syncDone, cacheDone = nil, nil
		}
	}
	logger.Info("所有定时任务已停止")

	logger.Info("服务已成功关闭")
}
