package app

import (
	"time"

	"github.com/dkeye/Relay/internal/domain"
)

const DefaultTimeLayout = "3:04:05 PM"

// MessageBuilder stamps messages with the wall clock at send time.
type MessageBuilder struct {
	Now    func() time.Time
	Layout string
}

func NewMessageBuilder(layout string) MessageBuilder {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return MessageBuilder{Now: time.Now, Layout: layout}
}

func (b MessageBuilder) Build(author, text string) domain.Message {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	layout := b.Layout
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return domain.Message{
		Author:    author,
		Text:      text,
		Timestamp: now().Format(layout),
	}
}
