package eventbus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// EnsureTopics는 기본 토픽, 재시도 토픽, DLQ 토픽을 만든다. 이미 있으면 성공으로 본다.
func EnsureTopics(ctx context.Context, brokers []string, topic Topic, partitions int) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": strings.Join(brokers, ","),
	})
	if err != nil {
		return fmt.Errorf("admin client 생성 실패: %w", err)
	}
	defer admin.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, topicSpecs(topic, partitions))
	if err != nil {
		return fmt.Errorf("토픽 생성 요청 실패: %w", err)
	}
	for _, r := range results {
		code := r.Error.Code()
		if code != kafka.ErrNoError && code != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("토픽 %s 생성 실패: %v", r.Topic, r.Error)
		}
	}
	return nil
}

func topicSpecs(topic Topic, partitions int) []kafka.TopicSpecification {
	if partitions <= 0 {
		partitions = 1
	}
	specs := []kafka.TopicSpecification{
		{Topic: topic.Base(), NumPartitions: partitions, ReplicationFactor: 1},
		// DLQ 는 1 파티션
		{Topic: topic.DLQ(), NumPartitions: 1, ReplicationFactor: 1},
	}
	for _, name := range topic.RetryTopics() {
		specs = append(specs, kafka.TopicSpecification{Topic: name, NumPartitions: partitions, ReplicationFactor: 1})
	}
	return specs
}
