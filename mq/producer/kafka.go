package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/topic_service/config"
	"github.com/Xushengqwer/topic_service/models/entities"
	"github.com/Xushengqwer/topic_service/models/events"
)

// KafkaProducer 封装发往下游服务的领域事件投递。
type KafkaProducer struct {
	writer *kafka.Writer
	logger *core.ZapLogger
	topics config.Topics
}

func NewKafkaProducer(config config.KafkaConfig, logger *core.ZapLogger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(config.Brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger,
		topics: config.Topics,
	}
}

// SendEvent 序列化事件并写入指定主题，消息键取 EventID 保证去重侧可追踪。
func (p *KafkaProducer) SendEvent(ctx context.Context, topic string, eventID string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("序列化 Kafka 事件失败", zap.Error(err), zap.String("topic", topic))
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(eventID),
		Value: payload,
	})
	if err != nil {
		p.logger.Error("写入 Kafka 消息失败",
			zap.Error(err),
			zap.String("topic", topic),
			zap.String("eventID", eventID))
		return err
	}

	p.logger.Debug("Kafka 消息已发送",
		zap.String("topic", topic),
		zap.String("eventID", eventID))
	return nil
}

// SendTopicCreatedEvent 把新建话题投递给搜索/信息流等下游服务。
func (p *KafkaProducer) SendTopicCreatedEvent(ctx context.Context, topic *entities.Topic) error {
	data := events.TopicData{
		ID:             topic.ID,
		Title:          topic.Title,
		Forum:          topic.Forum,
		Type:           string(topic.Type),
		AuthorID:       topic.AuthorID,
		AuthorUsername: topic.AuthorUsername,
		CreatedAt:      topic.CreatedAt,
	}
	if topic.ImageURL.Valid {
		data.ImageURL = topic.ImageURL.String
	}

	event := events.TopicCreatedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		Topic:     data,
	}
	return p.SendEvent(ctx, p.topics.TopicCreated, event.EventID, event)
}

// SendMentionNotifyEvent 在正文包含 @用户 时通知站内信服务。
// 对话题创建流程是 fire-and-forget，失败只记日志。
func (p *KafkaProducer) SendMentionNotifyEvent(ctx context.Context, topicID uint64, authorID string, content string) error {
	event := events.MentionNotifyEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		TopicID:   topicID,
		AuthorID:  authorID,
		Content:   content,
	}
	return p.SendEvent(ctx, p.topics.MentionNotify, event.EventID, event)
}

// Close 关闭底层 Writer，flush 尚未发出的消息。
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
