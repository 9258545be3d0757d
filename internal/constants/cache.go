package constants

const (
	CACHE_KEY_RESTAURANT = "restaurant:%s"
	CACHE_KEY_ORDER      = "order:%s"
)

const (
	TOPIC_ORDER_CREATED        = "order.created"
	TOPIC_ORDER_STATUS_UPDATED = "order.status_updated"
)
