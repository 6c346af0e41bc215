package service

import (
	"context"
	"database/sql"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xushengqwer/topic_service/config"
	"github.com/Xushengqwer/topic_service/constant"
	"github.com/Xushengqwer/topic_service/dependencies"
	"github.com/Xushengqwer/topic_service/models/dto"
	"github.com/Xushengqwer/topic_service/models/entities"
	"github.com/Xushengqwer/topic_service/models/vo"
	"github.com/Xushengqwer/topic_service/myErrors"
	"github.com/Xushengqwer/topic_service/pkg/fanout"
	"github.com/Xushengqwer/topic_service/repo/mysql"
	"github.com/Xushengqwer/topic_service/repo/redis"
)

// TopicService 定义了话题核心业务逻辑的接口。
type TopicService interface {
	// CreateTopic 处理用户发布新话题的业务流程。
	// - 携带图片时先上传 COS，再并发写入话题记录与作者的积分/发帖数奖励，
	//   两笔写入都完成后才返回。
	// - 成功后异步发送话题创建事件；正文包含 @ 时异步发送提及通知事件。
	CreateTopic(ctx context.Context, userID string, req *dto.CreateTopicRequest, imageFile *multipart.FileHeader) (*vo.TopicDetailVO, error)

	// GetTopicDetail 获取话题详情。
	// - 并发获取话题本体与当前用户的收藏状态，两者齐备后组装响应；
	//   匿名用户的收藏状态直接按 false 投递，不发起查询。
	// - 登录用户访问时异步累加浏览量。
	GetTopicDetail(ctx context.Context, topicID uint64, userID string) (*vo.TopicDetailVO, error)

	// ListTopics 话题列表页。
	// - forum 为空或 "all" 时返回全部板块，"good" 返回精华，其余按板块名筛选。
	// - 登录用户补充每条话题的已喜欢标记。
	ListTopics(ctx context.Context, userID string, req *dto.ListTopicsRequest) (*vo.TopicListPageVO, error)

	// UpdateTopic 编辑话题，仅作者本人或管理员可操作。
	// - 非作者且非管理员返回 myErrors.ErrUnauthorized。
	UpdateTopic(ctx context.Context, userID string, isAdmin bool, topicID uint64, req *dto.UpdateTopicRequest) (*vo.TopicResponse, error)
}

// TopicEventProducer 抽象话题领域事件的投递，*producer.KafkaProducer 是其生产实现。
// brokers 未配置时注入 nil，事件发送被静默跳过。
type TopicEventProducer interface {
	SendTopicCreatedEvent(ctx context.Context, topic *entities.Topic) error
	SendMentionNotifyEvent(ctx context.Context, topicID uint64, authorID string, content string) error
}

// topicService 是 TopicService 接口的具体实现。
type topicService struct {
	topicRepo     mysql.TopicRepository
	userRepo      mysql.UserRepository
	likeRepo      mysql.TopicLikeRepository
	boardRepo     mysql.TopicBoardRepository
	cosClient     dependencies.COSClientInterface // cos云服务依赖
	topicVisit    redis.TopicVisitRepository      // 话题浏览量相关的 Redis 操作
	kafkaSvc      TopicEventProducer              // 领域事件生产者，可为 nil
	logger        *core.ZapLogger
	topicPageSize int // 列表页每页条数
}

// NewTopicService 是 topicService 的构造函数，通过依赖注入初始化服务实例。
// - 这种方式便于单元测试和组件替换。
func NewTopicService(
	topicRepo mysql.TopicRepository,
	userRepo mysql.UserRepository,
	likeRepo mysql.TopicLikeRepository,
	boardRepo mysql.TopicBoardRepository,
	cosClient dependencies.COSClientInterface,
	topicVisit redis.TopicVisitRepository,
	kafkaSvc TopicEventProducer,
	logger *core.ZapLogger,
	listCfg config.ListConfig,
) TopicService {
	pageSize := listCfg.TopicPageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	return &topicService{
		topicRepo:     topicRepo,
		userRepo:      userRepo,
		likeRepo:      likeRepo,
		boardRepo:     boardRepo,
		cosClient:     cosClient,
		topicVisit:    topicVisit,
		kafkaSvc:      kafkaSvc,
		logger:        logger,
		topicPageSize: pageSize,
	}
}

// generateTopicImageObjectKey 创建一个唯一的 COS 对象键。
func (s *topicService) generateTopicImageObjectKey(originalFilename string, userID string) string {
	now := time.Now()
	datePrefix := now.Format("20060102") // YYYYMMDD
	randomUUID := uuid.NewString()
	extension := strings.ToLower(filepath.Ext(originalFilename))

	// 规则：topics/images/YYYYMMDD/userID_uuid.ext
	return fmt.Sprintf("%s%s/%s_%s%s",
		constant.COSObjectKeyPrefixTopicImages,
		datePrefix,
		userID,
		randomUUID,
		extension,
	)
}

type topicOutcome struct {
	topic *entities.Topic
	err   error
}

// CreateTopic 处理用户创建新话题的请求，包括图片上传、话题落库与发帖奖励。
func (s *topicService) CreateTopic(ctx context.Context, userID string, req *dto.CreateTopicRequest, imageFile *multipart.FileHeader) (*vo.TopicDetailVO, error) {
	// 1. 取作者快照，话题上冗余存储作者名与头像
	author, err := s.userRepo.GetUserByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("创建话题：获取作者快照失败", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}

	// 2. 携带图片时先上传 COS；上传失败直接终止，不产生任何数据库写入
	topicType := entities.TopicTypeText
	imageURL := sql.NullString{}
	imageHash := sql.NullString{}
	uploadedObjectKey := ""

	if imageFile != nil {
		file, openErr := imageFile.Open()
		if openErr != nil {
			s.logger.Error("打开图片文件以上传失败",
				zap.String("filename", imageFile.Filename), zap.Error(openErr))
			return nil, fmt.Errorf("打开图片文件 %s 失败: %w", imageFile.Filename, openErr)
		}

		contentType := imageFile.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream" // 常见的默认值
			s.logger.Warn("未提供图片的内容类型，使用默认值",
				zap.String("filename", imageFile.Filename),
				zap.String("defaultContentType", contentType))
		}

		objectKey := s.generateTopicImageObjectKey(imageFile.Filename, userID)
		url, uploadErr := s.cosClient.UploadFile(ctx, objectKey, file, imageFile.Size, contentType)
		file.Close() // 在 UploadFile 使用完文件后关闭它
		if uploadErr != nil {
			s.logger.Error("上传图片到 COS 失败",
				zap.String("filename", imageFile.Filename),
				zap.String("objectKey", objectKey),
				zap.Error(uploadErr))
			return nil, fmt.Errorf("上传图片 %s 到 COS 失败: %w", imageFile.Filename, uploadErr)
		}

		topicType = entities.TopicTypeImage
		imageURL = sql.NullString{String: url, Valid: true}
		uploadedObjectKey = objectKey
		if req.ImageHash != "" {
			imageHash = sql.NullString{String: strings.ToLower(req.ImageHash), Valid: true}
		} else {
			s.logger.Warn("图片话题未携带感知指纹，将不参与相似检索",
				zap.String("objectKey", objectKey))
		}
		s.logger.Info("成功上传图片到 COS",
			zap.String("filename", imageFile.Filename),
			zap.String("objectKey", objectKey),
			zap.String("imageURL", url))
	}

	topic := &entities.Topic{
		Title:          req.Title,
		Content:        req.Content,
		Forum:          req.Forum,
		Type:           topicType,
		AuthorID:       userID,
		AuthorAvatar:   author.Avatar,
		AuthorUsername: author.Username,
		ImageURL:       imageURL,
		ImageHash:      imageHash,
	}

	// 3. 话题落库与发帖奖励并发执行，两笔都完成后才响应。
	//    两笔写入独立提交：奖励成功而落库失败时积分不回滚，漂移由设计接受。
	done := make(chan topicOutcome, 1)
	co := fanout.NewCoordinator()
	co.OnError(func(opErr error) {
		select {
		case done <- topicOutcome{err: opErr}:
		default:
			s.logger.Error("创建话题子操作在响应后报错", zap.Error(opErr), zap.String("user_id", userID))
		}
	})

	co.Go("topic_saved", func() (interface{}, error) {
		if repoErr := s.topicRepo.CreateTopic(ctx, topic); repoErr != nil {
			return nil, fmt.Errorf("创建话题失败: %w", repoErr)
		}
		return topic, nil
	})
	co.Go("score_saved", func() (interface{}, error) {
		return nil, s.userRepo.AddTopicScore(context.Background(), userID, constant.TopicCreateScoreReward)
	})
	co.Join(func(values []interface{}) {
		done <- topicOutcome{topic: values[0].(*entities.Topic)}
	}, "topic_saved", "score_saved")

	var created *entities.Topic
	select {
	case out := <-done:
		if out.err != nil {
			// 落库失败时已上传的图片成为孤立文件，尝试清理
			if uploadedObjectKey != "" {
				if cleanupErr := s.cosClient.DeleteObject(context.Background(), uploadedObjectKey); cleanupErr != nil {
					s.logger.Error("清理孤立的 COS 文件失败",
						zap.String("objectKey", uploadedObjectKey), zap.Error(cleanupErr))
				}
			}
			return nil, out.err
		}
		created = out.topic
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// 4. 异步发送 Kafka 事件，失败只记日志，不影响响应。
	//    brokers 未配置时生产者为 nil，事件静默跳过。
	if s.kafkaSvc != nil {
		go func(t entities.Topic) {
			bgCtx := context.Background()
			if kafkaErr := s.kafkaSvc.SendTopicCreatedEvent(bgCtx, &t); kafkaErr != nil {
				s.logger.Error("发送 Kafka 话题创建事件失败", zap.Error(kafkaErr), zap.Uint64("topic_id", t.ID))
			}
		}(*created)

		mentionText := req.Mention
		if mentionText == "" {
			mentionText = req.Content
		}
		if strings.Contains(mentionText, "@") {
			go func(topicID uint64, authorID, text string) {
				bgCtx := context.Background()
				if kafkaErr := s.kafkaSvc.SendMentionNotifyEvent(bgCtx, topicID, authorID, text); kafkaErr != nil {
					s.logger.Error("发送 Kafka 提及通知事件失败", zap.Error(kafkaErr), zap.Uint64("topic_id", topicID))
				}
			}(created.ID, userID, mentionText)
		}
	}

	detail := &vo.TopicDetailVO{
		TopicResponse: *vo.NewTopicResponseFromEntity(created),
		Content:       created.Content,
	}
	return detail, nil
}

// GetTopicDetail 实现话题详情查询。
// 话题本体与收藏状态并发获取，匿名用户的收藏状态直接投递 false。
func (s *topicService) GetTopicDetail(ctx context.Context, topicID uint64, userID string) (*vo.TopicDetailVO, error) {
	type detailOutcome struct {
		detail *vo.TopicDetailVO
		err    error
	}
	done := make(chan detailOutcome, 1)

	co := fanout.NewCoordinator()
	co.OnError(func(opErr error) {
		select {
		case done <- detailOutcome{err: opErr}:
		default:
			s.logger.Error("话题详情子操作在响应后报错", zap.Error(opErr), zap.Uint64("topic_id", topicID))
		}
	})

	co.Go("full_topic", func() (interface{}, error) {
		return s.topicRepo.GetTopicByID(ctx, topicID)
	})
	if userID == "" {
		co.Emit("is_collect", false)
	} else {
		co.Go("is_collect", func() (interface{}, error) {
			record, repoErr := s.boardRepo.GetTopicBoard(ctx, userID, topicID)
			if repoErr != nil {
				return nil, repoErr
			}
			return record != nil, nil
		})
	}
	co.Join(func(values []interface{}) {
		topic := values[0].(*entities.Topic)
		isCollect := values[1].(bool)
		done <- detailOutcome{detail: &vo.TopicDetailVO{
			TopicResponse: *vo.NewTopicResponseFromEntity(topic),
			Content:       topic.Content,
			IsCollect:     isCollect,
		}}
	}, "full_topic", "is_collect")

	var detail *vo.TopicDetailVO
	select {
	case out := <-done:
		if out.err != nil {
			return nil, out.err
		}
		detail = out.detail
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// 登录用户访问时异步累加浏览量，不阻塞响应
	if userID == "" {
		s.logger.Debug("匿名访问，跳过增加浏览量", zap.Uint64("topic_id", topicID))
	} else {
		go func(tID uint64, uID string) {
			if redisErr := s.topicVisit.IncrementVisitCount(context.Background(), tID, uID); redisErr != nil {
				s.logger.Error("异步增加浏览量失败",
					zap.Error(redisErr),
					zap.Uint64("topic_id", tID),
					zap.String("user_id", uID))
			}
		}(topicID, userID)
	}

	return detail, nil
}

// ListTopics 实现话题列表页查询。
// 先取话题页，再查当前用户对该页话题的喜欢关系，两步通过汇合组衔接。
func (s *topicService) ListTopics(ctx context.Context, userID string, req *dto.ListTopicsRequest) (*vo.TopicListPageVO, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * s.topicPageSize

	// 未指定或不认识的 type 一律按文字帖处理
	topicType := entities.TopicTypeText
	if req.Type == string(entities.TopicTypeImage) {
		topicType = entities.TopicTypeImage
	}

	type listOutcome struct {
		page *vo.TopicListPageVO
		err  error
	}
	done := make(chan listOutcome, 1)

	co := fanout.NewCoordinator()
	co.OnError(func(opErr error) {
		select {
		case done <- listOutcome{err: opErr}:
		default:
			s.logger.Error("话题列表子操作在响应后报错", zap.Error(opErr))
		}
	})

	co.Go("topics", func() (interface{}, error) {
		return s.topicRepo.ListTopics(ctx, topicType, req.Forum, offset, s.topicPageSize)
	})
	co.Join(func(values []interface{}) {
		topics := values[0].([]*entities.Topic)

		if userID == "" || len(topics) == 0 {
			co.Emit("liked_topics", map[uint64]bool(nil))
		} else {
			topicIDs := make([]uint64, 0, len(topics))
			for _, t := range topics {
				topicIDs = append(topicIDs, t.ID)
			}
			co.Go("liked_topics", func() (interface{}, error) {
				likes, likeErr := s.likeRepo.ListTopicLikesByUserAndTopicIDs(ctx, userID, topicIDs)
				if likeErr != nil {
					return nil, likeErr
				}
				likedSet := make(map[uint64]bool, len(likes))
				for _, like := range likes {
					likedSet[like.TopicID] = true
				}
				return likedSet, nil
			})
		}

		co.Join(func(inner []interface{}) {
			likedSet := inner[0].(map[uint64]bool)
			done <- listOutcome{page: &vo.TopicListPageVO{
				Topics:   vo.MapTopicsToTopicResponsesVO(topics, likedSet),
				Page:     page,
				PageSize: s.topicPageSize,
			}}
		}, "liked_topics")
	}, "topics")

	select {
	case out := <-done:
		if out.err != nil {
			s.logger.Error("话题列表查询失败", zap.Error(out.err),
				zap.String("forum", req.Forum), zap.Int("page", page))
			return nil, out.err
		}
		return out.page, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// UpdateTopic 实现话题编辑，带作者/管理员权限校验。
func (s *topicService) UpdateTopic(ctx context.Context, userID string, isAdmin bool, topicID uint64, req *dto.UpdateTopicRequest) (*vo.TopicResponse, error) {
	topic, err := s.topicRepo.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, err
	}

	if topic.AuthorID != userID && !isAdmin {
		s.logger.Warn("非作者尝试编辑话题",
			zap.Uint64("topic_id", topicID),
			zap.String("author_id", topic.AuthorID),
			zap.String("user_id", userID))
		return nil, myErrors.ErrUnauthorized
	}

	topic.Title = req.Title
	topic.Content = req.Content
	topic.Forum = req.Forum
	if err := s.topicRepo.SaveTopic(ctx, topic); err != nil {
		s.logger.Error("保存话题编辑失败", zap.Error(err), zap.Uint64("topic_id", topicID))
		return nil, err
	}

	// 编辑后的正文含 @ 时同样异步触发提及通知，失败只记日志
	if s.kafkaSvc != nil && strings.Contains(req.Content, "@") {
		go func(tID uint64, authorID, text string) {
			bgCtx := context.Background()
			if kafkaErr := s.kafkaSvc.SendMentionNotifyEvent(bgCtx, tID, authorID, text); kafkaErr != nil {
				s.logger.Error("发送 Kafka 提及通知事件失败", zap.Error(kafkaErr), zap.Uint64("topic_id", tID))
			}
		}(topic.ID, topic.AuthorID, req.Content)
	}

	return vo.NewTopicResponseFromEntity(topic), nil
}
