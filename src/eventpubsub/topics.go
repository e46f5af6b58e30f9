package eventpubsub

import (
	"time"

	"github.com/linkenghong/Backtesting/src/eventmodels"
)

const (
	TopicFillCreated     = "fill.created"
	TopicPositionUpdated = "position.updated"
)

// PublishFillCreated announces a simulated execution to the log sinks.
func PublishFillCreated(fill *eventmodels.FillEvent) {
	Publish(TopicFillCreated, fill)
}

// PublishPositionUpdated announces a position mutation to the log sinks.
func PublishPositionUpdated(timestamp time.Time, snapshot eventmodels.PositionSnapshot) {
	Publish(TopicPositionUpdated, timestamp, snapshot)
}
