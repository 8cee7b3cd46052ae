package eventbus

// DefaultChatTopic은 config 에 topic 이 없을 때 쓰는 채팅 이벤트 토픽이다.
const DefaultChatTopic = "research-chat.events"

func ChatTopic(name string) Topic {
	if name == "" {
		name = DefaultChatTopic
	}
	return NewTopic(name)
}
