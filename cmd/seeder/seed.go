package main

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xushengqwer/topic_service/models/entities"
	"github.com/Xushengqwer/topic_service/repo/mysql"
)

// seedDeps 聚合 Seed 需要的各仓库，避免参数列表过长
type seedDeps struct {
	topicRepo mysql.TopicRepository
	userRepo  mysql.UserRepository
	likeRepo  mysql.TopicLikeRepository
	boardRepo mysql.TopicBoardRepository
}

var forums = []string{"share", "ask", "job", "good"}

// randomImageHash 生成一个 16 位十六进制的感知指纹。
// 真实指纹来自上传管线，这里用随机值填充以便相似检索接口有数据可扫。
func randomImageHash() string {
	return fmt.Sprintf("%016x", gofakeit.Uint64())
}

// Seed 直接通过仓库层填充测试数据：先造用户，再造话题（约一半为图片话题），
// 最后随机补一些喜欢关系和 Get 记录。
// 走仓库层而不是服务层，是为了跳过真实的 COS 上传。
func Seed(ctx context.Context, deps seedDeps, logger *core.ZapLogger, numTopics int) {
	logger.Info("开始填充测试数据...", zap.Int("话题数量", numTopics))

	// --- 1. 先造一批用户，话题作者从中随机挑选 ---
	numUsers := numTopics/5 + 2
	userIDs := make([]string, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		userID := uuid.New().String()
		if err := deps.userRepo.UpsertProfile(ctx, userID, gofakeit.Username(), gofakeit.ImageURL(100, 100)); err != nil {
			logger.Error("创建测试用户失败", zap.Error(err), zap.String("user_id", userID))
			continue
		}
		userIDs = append(userIDs, userID)
	}
	if len(userIDs) == 0 {
		logger.Error("没有成功创建任何测试用户，中止填充")
		return
	}
	logger.Info("测试用户创建完毕", zap.Int("数量", len(userIDs)))

	// --- 2. 并发创建话题 ---
	var wg sync.WaitGroup
	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	var mu sync.Mutex
	topicIDs := make([]uint64, 0, numTopics)

	for i := 0; i < numTopics; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(itemIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			authorID := userIDs[gofakeit.Number(0, len(userIDs)-1)]
			author, err := deps.userRepo.GetUserByUserID(ctx, authorID)
			if err != nil {
				logger.Error("读取作者快照失败", zap.Error(err), zap.String("author_id", authorID))
				return
			}

			topic := &entities.Topic{
				Title:          gofakeit.Sentence(gofakeit.Number(5, 15)),
				Content:        gofakeit.Paragraph(3, 5, 20, "\n\n"),
				Forum:          forums[gofakeit.Number(0, len(forums)-1)],
				Type:           entities.TopicTypeText,
				AuthorID:       authorID,
				AuthorAvatar:   author.Avatar,
				AuthorUsername: author.Username,
				Good:           gofakeit.Bool() && gofakeit.Bool(),
			}

			// 约一半话题带图，图片话题携带指纹参与相似检索
			if itemIndex%2 == 0 {
				topic.Type = entities.TopicTypeImage
				topic.ImageURL = sql.NullString{String: gofakeit.ImageURL(640, 480), Valid: true}
				topic.ImageHash = sql.NullString{String: randomImageHash(), Valid: true}
			}

			if err := deps.topicRepo.CreateTopic(ctx, topic); err != nil {
				logger.Error(fmt.Sprintf("创建话题 %d/%d 失败", itemIndex+1, numTopics),
					zap.Error(err),
					zap.String("title", topic.Title),
					zap.String("author_id", topic.AuthorID))
				return
			}

			mu.Lock()
			topicIDs = append(topicIDs, topic.ID)
			mu.Unlock()

			logger.Info(fmt.Sprintf("成功创建话题 %d/%d", itemIndex+1, numTopics),
				zap.Uint64("topic_id", topic.ID),
				zap.String("type", string(topic.Type)))
		}(i)
	}

	wg.Wait()
	logger.Info("话题创建完毕", zap.Int("数量", len(topicIDs)))

	if len(topicIDs) == 0 {
		logger.Warn("没有成功创建任何话题，跳过喜欢/Get 关系填充")
		return
	}

	// --- 3. 随机补一些喜欢关系和 Get 记录 ---
	numLikes := len(topicIDs) * 2
	for i := 0; i < numLikes; i++ {
		userID := userIDs[gofakeit.Number(0, len(userIDs)-1)]
		topicID := topicIDs[gofakeit.Number(0, len(topicIDs)-1)]

		// (user, topic) 联合唯一，撞上已有关系时会报错，随机数据下直接跳过
		if err := deps.likeRepo.CreateTopicLike(ctx, userID, topicID); err != nil {
			continue
		}
		if err := deps.topicRepo.IncrLikeCount(ctx, topicID, 1); err != nil {
			logger.Warn("补偿话题喜欢计数失败", zap.Error(err), zap.Uint64("topic_id", topicID))
		}
		if err := deps.userRepo.IncrLikeImageCount(ctx, userID, 1); err != nil {
			logger.Warn("补偿用户喜欢计数失败", zap.Error(err), zap.String("user_id", userID))
		}
	}

	numClaims := len(topicIDs)
	for i := 0; i < numClaims; i++ {
		userID := userIDs[gofakeit.Number(0, len(userIDs)-1)]
		topicID := topicIDs[gofakeit.Number(0, len(topicIDs)-1)]

		board := &entities.TopicBoard{
			UserID:  userID,
			TopicID: topicID,
			BoardID: uuid.New().String(),
		}
		if gofakeit.Bool() {
			board.Desc = sql.NullString{String: gofakeit.Sentence(6), Valid: true}
		}

		if err := deps.boardRepo.CreateTopicBoard(ctx, board); err != nil {
			continue
		}
		if err := deps.topicRepo.IncrGetedCount(ctx, topicID, 1); err != nil {
			logger.Warn("补偿话题 Get 计数失败", zap.Error(err), zap.Uint64("topic_id", topicID))
		}
		if err := deps.userRepo.IncrGetImageCount(ctx, userID, 1); err != nil {
			logger.Warn("补偿用户 Get 计数失败", zap.Error(err), zap.String("user_id", userID))
		}
	}

	logger.Info("测试数据填充完毕。")
}
