package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"research-chat/internal/logger"
)

// KafkaEventBus는 confluent-kafka-go 기반 EventBus 구현체다.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string
}

func NewKafkaEventBus(brokers []string) (*KafkaEventBus, error) {
	joined := strings.Join(brokers, ",")
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": joined,
		"acks":              "all",
		"retries":           5,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka producer 생성 실패: %w", err)
	}

	// 전달 보고서는 Publish 의 deliveryChan 으로 받고, 여기서는 나머지 이벤트만 로깅한다.
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.Log.Errorf("kafka delivery failed %v: %v", ev.TopicPartition, ev.TopicPartition.Error)
				}
			case kafka.Error:
				logger.Log.Errorf("kafka error: %v", ev)
			}
		}
	}()

	return &KafkaEventBus{Producer: p, Brokers: joined}, nil
}

func (k *KafkaEventBus) Close() {
	if k.Producer == nil {
		return
	}
	if remaining := k.Producer.Flush(5000); remaining > 0 {
		logger.Log.Warnf("%d kafka messages left unflushed", remaining)
	}
	k.Producer.Close()
	logger.Log.Info("kafka producer closed")
}

// Publish는 topic 에 event 를 보내고 전달 보고서를 기다린다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("event marshal 실패: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.PartitionKey()),
		Value:          data,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("produce 실패: %w", err)
	}

	select {
	case ev := <-deliveryChan:
		if m, ok := ev.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery 실패: %w", m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (k *KafkaEventBus) newConsumer(groupID string, topics []string) (*kafka.Consumer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":             k.Brokers,
		"group.id":                      groupID,
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false,
		"partition.assignment.strategy": "range",
	})
	if err != nil {
		return nil, fmt.Errorf("kafka consumer 생성 실패: %w", err)
	}
	if err := c.SubscribeTopics(topics, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("토픽 구독 실패 %v: %w", topics, err)
	}
	logger.InfoWithFields("kafka consumer started", logger.Fields{
		"group_id": groupID,
		"topics":   strings.Join(topics, ","),
	})
	return c, nil
}

// read는 타임아웃을 제외한 메시지를 돌려준다. 메시지가 없으면 nil 이다.
func read(c *kafka.Consumer) (*kafka.Message, error) {
	msg, err := c.ReadMessage(100 * time.Millisecond)
	if err == nil {
		return msg, nil
	}
	if kerr, ok := err.(kafka.Error); ok {
		if kerr.Code() == kafka.ErrTimedOut {
			return nil, nil
		}
		if kerr.IsFatal() {
			return nil, err
		}
	}
	logger.Log.Warnf("kafka read error: %v", err)
	return nil, nil
}

// Subscribe는 기본 토픽을 소비한다. 핸들러가 실패하면 이벤트를 재시도 토픽이나 DLQ 로 보내고,
// 그 발행이 성공했을 때만 오프셋을 커밋한다.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	c, err := k.newConsumer(groupID, []string{topic.Base()})
	if err != nil {
		return err
	}
	defer c.Close()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg, err := read(c)
		if err != nil {
			return fmt.Errorf("consumer 치명적 오류: %w", err)
		}
		if msg == nil {
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.ErrorWithFields("skipping malformed event", logger.Fields{
				"topic": *msg.TopicPartition.Topic,
				"error": err.Error(),
			})
			c.CommitMessage(msg)
			continue
		}

		if herr := handler(ctx, evt); herr != nil {
			dest, failed := nextDestination(topic, evt, herr)
			logger.WarnWithFields("event handler failed", logger.Fields{
				"event_id":    evt.ID,
				"retry":       failed.Retry,
				"destination": dest,
				"error":       herr.Error(),
			})
			if perr := k.Publish(ctx, dest, failed); perr != nil {
				// 오프셋을 커밋하지 않아 같은 메시지를 다시 받는다.
				logger.Log.Errorf("publish to %s failed, offset not committed: %v", dest, perr)
				continue
			}
		}

		if _, err := c.CommitMessage(msg); err != nil {
			logger.Log.Errorf("offset commit failed: %v", err)
		}
	}
}

func (k *KafkaEventBus) StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error {
	c, err := k.newConsumer(groupID, topic.RetryTopics())
	if err != nil {
		return err
	}
	defer c.Close()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg, err := read(c)
		if err != nil {
			return fmt.Errorf("retry reinjector 치명적 오류: %w", err)
		}
		if msg == nil {
			continue
		}

		name := *msg.TopicPartition.Topic
		delay, ok := RetryDelayFromTopic(name)
		if !ok {
			logger.Log.Errorf("unparseable retry topic %s, skipping", name)
			c.CommitMessage(msg)
			continue
		}
		if wait := time.Until(msg.Timestamp.Add(delay)); wait > 0 {
			// 컨슈머를 오래 막지 않도록 짧게 쉬고, 커밋하지 않은 메시지를 다시 받는다.
			time.Sleep(min(max(wait, 50*time.Millisecond), 500*time.Millisecond))
			if _, err := c.SeekPartitions([]kafka.TopicPartition{msg.TopicPartition}); err != nil {
				logger.Log.Warnf("seek back failed: %v", err)
			}
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.Log.Errorf("malformed retry event on %s: %v", name, err)
			c.CommitMessage(msg)
			continue
		}
		if err := k.Publish(ctx, topic.Base(), evt); err != nil {
			logger.Log.Errorf("reinject of %s failed, offset not committed: %v", evt.ID, err)
			continue
		}
		if _, err := c.CommitMessage(msg); err != nil {
			logger.Log.Errorf("offset commit failed: %v", err)
		}
	}
}
