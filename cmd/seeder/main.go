package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/topic_service/config"
	"github.com/Xushengqwer/topic_service/dependencies"
	"github.com/Xushengqwer/topic_service/repo/mysql"
)

func main() {
	// --- 0. 解析命令行参数 ---
	var numTopics int
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "配置文件路径")
	flag.IntVar(&numTopics, "n", 50, "要生成的话题数量 (默认: 50)")
	flag.Parse()

	absConfigFile, err := filepath.Abs(configFile)
	if err != nil {
		fmt.Printf("无法获取配置文件的绝对路径 '%s': %v\n", configFile, err)
		absConfigFile = configFile
	}
	fmt.Printf("准备使用配置文件 '%s' (尝试绝对路径: '%s') 生成 %d 条测试话题...\n", configFile, absConfigFile, numTopics)

	if numTopics <= 0 {
		fmt.Println("错误: 生成的话题数量必须大于 0")
		os.Exit(1)
	}

	// --- 1. 加载配置 ---
	var cfg appConfig.TopicConfig
	if err := core.LoadConfig(absConfigFile, &cfg); err != nil {
		fmt.Printf("加载配置失败 (%s): %v\n", absConfigFile, err)
		os.Exit(1)
	}
	fmt.Println("配置加载成功。")
	if cfg.MySQLConfig.Write.DSN == "" {
		fmt.Println("警告: MySQL Write DSN 为空。请检查：")
		fmt.Println("1. 配置文件路径是否正确 (当前尝试路径: ", absConfigFile, ")。")
		fmt.Println("2. 配置文件内容中 `mysqlConfig.write.dsn` 是否存在且有值。")
		fmt.Println("3. 是否有环境变量覆盖了此配置项为空字符串。")
	}

	// --- 2. 初始化日志记录器 ---
	logger, loggerErr := core.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		fmt.Printf("初始化 ZapLogger 失败: %v\n", loggerErr)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Logger().Sync()
	}()
	logger.Info("Logger 初始化成功 (Seeder)")

	// --- 3. 初始化 MySQL 数据库连接 ---
	db, dbErr := dependencies.InitMySQL(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 MySQL 失败 (Seeder)", zap.Error(dbErr))
	}
	logger.Info("MySQL 连接成功 (Seeder)")

	// --- 4. 初始化 Repositories ---
	// Seeder 直接写仓库层，不经过服务层，避免依赖真实的 COS/Kafka/Redis
	deps := seedDeps{
		topicRepo: mysql.NewTopicRepository(db, logger),
		userRepo:  mysql.NewUserRepository(db, logger),
		likeRepo:  mysql.NewTopicLikeRepository(db),
		boardRepo: mysql.NewTopicBoardRepository(db),
	}
	logger.Info("Repositories 已初始化 (Seeder)")

	// --- 5. 执行数据填充 ---
	ctx := context.Background()
	startTime := time.Now()
	logger.Info("开始执行数据填充...", zap.Int("预计数量", numTopics))

	Seed(ctx, deps, logger, numTopics)

	duration := time.Since(startTime)
	logger.Info("数据填充完成！", zap.Duration("耗时", duration))
	fmt.Printf("数据填充完成！总耗时: %v\n", duration)
}
