package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RetryDelays는 재시도 횟수(1-based)별 지연 시간이다. 감사 로그 저장은 짧게 몇 번만 재시도한다.
var RetryDelays = []time.Duration{
	5 * time.Second,
	30 * time.Second,
	2 * time.Minute,
}

// Topic은 기본 토픽 이름에서 재시도/DLQ 토픽 이름을 파생한다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// DLQ 예: research-chat.events.dlq
func (t Topic) DLQ() string {
	return t.base + ".dlq"
}

// RetryTopics 예: research-chat.events.retry.5s
func (t Topic) RetryTopics() []string {
	topics := make([]string, len(RetryDelays))
	for i, delay := range RetryDelays {
		topics[i] = fmt.Sprintf("%s.retry.%s", t.base, delay)
	}
	return topics
}

// RetryTopic은 retryCount(1-based)번째 재시도 토픽을 반환한다.
func (t Topic) RetryTopic(retryCount int) (string, error) {
	if retryCount <= 0 || retryCount > len(RetryDelays) {
		return "", ErrMaxRetryExceeded
	}
	return t.RetryTopics()[retryCount-1], nil
}

// RetryDelayFromTopic은 재시도 토픽 이름의 ".retry." 뒤 duration 을 파싱한다.
func RetryDelayFromTopic(name string) (time.Duration, bool) {
	idx := strings.LastIndex(name, ".retry.")
	if idx == -1 || idx+7 >= len(name) {
		return 0, false
	}
	d, err := time.ParseDuration(name[idx+7:])
	if err != nil {
		return 0, false
	}
	return d, true
}

// Event는 Kafka 메시지 페이로드다. Key 가 비어 있으면 ID 가 파티션 키로 쓰인다.
type Event struct {
	ID        string          `json:"id"`
	Key       string          `json:"key,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Retry     int             `json:"retry"`
	MaxRetry  int             `json:"max_retry"`
	LastError string          `json:"last_error,omitempty"`
}

func (e Event) PartitionKey() string {
	if e.Key != "" {
		return e.Key
	}
	return e.ID
}

type EventHandler func(ctx context.Context, event Event) error

type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error
	// StartRetryReinjector는 재시도 토픽을 구독하고 지연 시간이 지난 이벤트를 기본 토픽으로 되돌린다.
	StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error
	Close()
}

var ErrMaxRetryExceeded = errors.New("최대 재시도 횟수 초과")

// nextDestination은 핸들러가 실패한 이벤트를 보낼 토픽을 정한다.
// 재시도 여유가 있으면 다음 재시도 토픽, 아니면 DLQ 이다.
func nextDestination(topic Topic, evt Event, cause error) (string, Event) {
	evt.LastError = cause.Error()
	maxRetry := evt.MaxRetry
	if maxRetry <= 0 || maxRetry > len(RetryDelays) {
		maxRetry = len(RetryDelays)
	}
	if evt.Retry >= maxRetry {
		return topic.DLQ(), evt
	}
	evt.Retry++
	next, err := topic.RetryTopic(evt.Retry)
	if err != nil {
		return topic.DLQ(), evt
	}
	return next, evt
}
