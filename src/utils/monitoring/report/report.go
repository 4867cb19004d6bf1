package report

type Report struct {
	Core           *CoreReport           `json:"core,omitempty"`
	RedisPublisher *RedisPublisherReport `json:"redis_publisher,omitempty"`
}
