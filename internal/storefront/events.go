package storefront

import (
	"github.com/asaskevich/EventBus"
)

// Topics published after state changes so the view can re-project.
const (
	TopicProductsChanged = "products:changed"
	TopicCartChanged     = "cart:changed"
	TopicSessionChanged  = "session:changed"
)

func NewBus() EventBus.Bus {
	return EventBus.New()
}

func publish(bus EventBus.Bus, topic string) {
	if bus != nil {
		bus.Publish(topic)
	}
}
