package service

import (
	"context"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/topic_service/constant"
	"github.com/Xushengqwer/topic_service/models/dto"
	"github.com/Xushengqwer/topic_service/models/entities"
	"github.com/Xushengqwer/topic_service/models/vo"
	"github.com/Xushengqwer/topic_service/pkg/simhash"
	"github.com/Xushengqwer/topic_service/repo/mysql"
)

// SimilarService 定义了相似图片检索的业务逻辑接口。
// - 按感知指纹的汉明距离做阈值过滤，不做相似度排序:
//   结果按 id 降序返回，保证游标分页单调，翻页不会重排。
type SimilarService interface {
	// ListSimilar 返回与参照话题视觉相似的图片话题。
	// - 只返回 id 严格小于 CursorID 的候选，参照话题自身永不出现在结果中。
	// - Limit 钳制到 [1, 10]，未指定时取 3。
	ListSimilar(ctx context.Context, req *dto.ListSimilarImagesRequest) (*vo.SimilarImagesVO, error)
}

// similarService 是 SimilarService 接口的具体实现。
type similarService struct {
	topicRepo mysql.TopicRepository
	logger    *core.ZapLogger
}

// NewSimilarService 是 similarService 的构造函数。
func NewSimilarService(topicRepo mysql.TopicRepository, logger *core.ZapLogger) SimilarService {
	return &similarService{
		topicRepo: topicRepo,
		logger:    logger,
	}
}

// clampLimit 把请求的 limit 收敛到合法区间。
func clampLimit(limit int) int {
	if limit <= 0 {
		return constant.SimDefaultLimit
	}
	if limit > constant.SimMaxLimit {
		return constant.SimMaxLimit
	}
	return limit
}

// ListSimilar 实现相似图片检索。
// 存储层只做粗筛（图片类型、id < 游标、指纹非空、id 降序分批），
// 汉明距离在进程内对候选批逐条过滤，凑满 limit 或扫描达到上限即停。
func (s *similarService) ListSimilar(ctx context.Context, req *dto.ListSimilarImagesRequest) (*vo.SimilarImagesVO, error) {
	// 1. 取参照话题，不存在直接短路
	ref, err := s.topicRepo.GetTopicByID(ctx, req.TopicID)
	if err != nil {
		return nil, err
	}
	if !ref.ImageHash.Valid || ref.ImageHash.String == "" {
		s.logger.Warn("参照话题没有感知指纹，无法检索相似图片", zap.Uint64("topic_id", req.TopicID))
		return &vo.SimilarImagesVO{Topics: []*vo.TopicResponse{}}, nil
	}
	refHash := ref.ImageHash.String

	limit := clampLimit(req.Limit)
	matched := make([]*entities.Topic, 0, limit)
	cursor := req.CursorID
	scanned := 0

	// 2. 分批拉取候选并在进程内做距离过滤
	for len(matched) < limit && scanned < constant.SimMaxCandidateScan {
		batch, batchErr := s.topicRepo.ListImageTopicsBefore(ctx, cursor, constant.SimCandidateBatchSize)
		if batchErr != nil {
			s.logger.Error("拉取相似检索候选批失败", zap.Error(batchErr),
				zap.Uint64("cursor", cursor), zap.Uint64("topic_id", req.TopicID))
			return nil, fmt.Errorf("拉取相似检索候选失败: %w", batchErr)
		}
		if len(batch) == 0 {
			break // 游标之前已无候选
		}

		for _, candidate := range batch {
			scanned++
			if candidate.ID == ref.ID {
				continue
			}
			if !candidate.ImageHash.Valid {
				continue
			}
			dist, distErr := simhash.Distance(refHash, candidate.ImageHash.String)
			if distErr != nil {
				// 指纹脏数据不该让整个检索失败，跳过并记录
				s.logger.Warn("候选指纹非法，跳过",
					zap.Error(distErr),
					zap.Uint64("candidate_id", candidate.ID))
				continue
			}
			if dist < constant.SimHammingThreshold {
				matched = append(matched, candidate)
				if len(matched) >= limit {
					break
				}
			}
		}
		cursor = batch[len(batch)-1].ID
	}

	s.logger.Debug("相似图片检索完成",
		zap.Uint64("topic_id", req.TopicID),
		zap.Int("scanned", scanned),
		zap.Int("matched", len(matched)))

	return &vo.SimilarImagesVO{Topics: vo.MapTopicsToTopicResponsesVO(matched, nil)}, nil
}
