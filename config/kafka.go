package config

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
}

type Topics struct {
	MentionNotify      string `mapstructure:"mentionNotify" yaml:"mentionNotify"`           //  @提及通知主题（发往通知服务）
	TopicCreated       string `mapstructure:"topicCreated" yaml:"topicCreated"`             //  话题创建主题（发往搜索/信息流服务）
	UserProfileUpdated string `mapstructure:"userProfileUpdated" yaml:"userProfileUpdated"` //  用户资料变更主题（消费，回写冗余作者字段）
}
