package config

import "github.com/Xushengqwer/go-common/config"

type TopicConfig struct {
	ZapConfig       config.ZapConfig     `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	GormLogConfig   config.GormLogConfig `mapstructure:"gormLogConfig" json:"gormLogConfig" yaml:"gormLogConfig"`
	ServerConfig    config.ServerConfig  `mapstructure:"serverConfig" json:"serverConfig" yaml:"serverConfig"`
	TracerConfig    config.TracerConfig  `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	VisitSyncConfig VisitSyncConfig      `mapstructure:"visitSyncConfig" json:"visitSyncConfig" yaml:"visitSyncConfig"`
	ListConfig      ListConfig           `mapstructure:"listConfig" json:"listConfig" yaml:"listConfig"`
	MySQLConfig     MySQLConfig          `mapstructure:"mysqlConfig" json:"mysqlConfig" yaml:"mysqlConfig"`
	RedisConfig     RedisConfig          `mapstructure:"redisConfig" json:"redisConfig" yaml:"redisConfig"`
	KafkaConfig     KafkaConfig          `mapstructure:"kafkaConfig" json:"kafkaConfig" yaml:"kafkaConfig"`
	COSConfig       COSConfig            `mapstructure:"topicImagesCosConfig" json:"topicImagesCosConfig" yaml:"topicImagesCosConfig"`
}

// ListConfig 列表类接口的默认分页参数
type ListConfig struct {
	// TopicPageSize 话题列表默认每页条数
	TopicPageSize int `mapstructure:"topicPageSize" json:"topicPageSize" yaml:"topicPageSize"`
}
