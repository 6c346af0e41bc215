package config

// VisitSyncConfig 控制浏览量从 Redis 落库 MySQL 的同步任务。
type VisitSyncConfig struct {
	// BatchSize 是单条 CASE WHEN 批量 UPDATE 覆盖的话题数。
	// 例如 20 万条待同步数据在 BatchSize=500 时会被切成 400 个批次，
	// 每个批次一次数据库往返。
	BatchSize int `mapstructure:"batchSize" json:"batchSize" yaml:"batchSize"`

	// ConcurrencyLevel 是并行消费上述批次的 worker 数量，
	// 直接决定同步期间对数据库的并发写连接数。
	ConcurrencyLevel int `mapstructure:"concurrencyLevel" json:"concurrencyLevel" yaml:"concurrencyLevel"`

	// ScanBatchSize 作为 Redis SCAN 的 COUNT 提示值使用，
	// Redis 不保证单次恰好返回该数量。
	ScanBatchSize int64 `mapstructure:"scanBatchSize" json:"scanBatchSize" yaml:"scanBatchSize"`
}
