package eventpubsub

import (
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

var bus EventBus.Bus

// Init creates the process-wide bus. Handlers are invoked synchronously on
// the publisher's goroutine: the simulation requires strict one-event-at-a-
// time delivery, so the async subscribe variants are deliberately not used.
func Init() {
	bus = EventBus.New()
}

// Reset drops the bus. Mainly for tests.
func Reset() {
	bus = nil
}

func Publish(topic string, args ...interface{}) {
	if bus == nil {
		return
	}

	bus.Publish(topic, args...)
}

func Subscribe(topic string, callbackFn interface{}) error {
	if bus == nil {
		Init()
	}

	if err := bus.Subscribe(topic, callbackFn); err != nil {
		return err
	}

	log.Infof("Subscribed to topic %s", topic)
	return nil
}

func Unsubscribe(topic string, callbackFn interface{}) error {
	if bus == nil {
		return nil
	}

	return bus.Unsubscribe(topic, callbackFn)
}
