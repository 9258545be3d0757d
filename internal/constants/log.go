package constants

const (
	KEY_APP_NAME           = "app"
	KEY_BODY               = "body"
	KEY_CACHE_KEY          = "cacheKey"
	KEY_CACHE_FILLED       = "cacheFilled"
	KEY_CONFIG             = "config"
	KEY_EMAIL              = "email"
	KEY_EVENT_TOPIC        = "eventTopic"
	KEY_FILTER             = "filter"
	KEY_ORDER_ID           = "orderId"
	KEY_ORDER_STATUS       = "orderStatus"
	KEY_ORDERS             = "orders"
	KEY_PROCESS            = "process"
	KEY_REQUEST            = "request"
	KEY_REQUEST_BODY       = "requestBody"
	KEY_REQUEST_HOST       = "host"
	KEY_REQUEST_ID         = "requestId"
	KEY_REQUEST_IP         = "requesterIp"
	KEY_REQUEST_METHOD     = "requestMethod"
	KEY_REQUEST_URI        = "requestUri"
	KEY_REQUEST_URL        = "requestUrl"
	KEY_RESPONSE_STATUS    = "responseStatus"
	KEY_RESTAURANT_ID      = "restaurantId"
	KEY_RESTAURANTS        = "restaurants"
	KEY_ROLE               = "role"
	KEY_SPAN_ID            = "spanId"
	KEY_TAG                = "tag"
	KEY_TOTAL_AMOUNT       = "totalAmount"
	KEY_TRACE_ID           = "traceId"
	KEY_USER_ID            = "userId"
	KEY_CART_ITEMS         = "cartItems"
	KEY_CART_STATE         = "cartState"
	KEY_QUERY_KEY          = "queryKey"
	KEY_QUERY_GENERATION   = "queryGeneration"
	KEY_HTTP_STATUS        = "httpStatus"
	KEY_HTTP_URL           = "httpUrl"
	KEY_HTTP_METHOD        = "httpMethod"
	KEY_MIGRATION_PATH     = "migrationPath"
	KEY_SESSION_FILE       = "sessionFile"
	KEY_PAGE               = "page"
	KEY_PAGE_SIZE          = "pageSize"
	KEY_TOTAL              = "total"
	KEY_EVENT_BROKER       = "eventBroker"
	KEY_LISTEN_ADDR        = "listenAddr"
	KEY_RESTAURANT_OWNER   = "ownerId"
	KEY_ORDER_STATUS_PREV  = "previousOrderStatus"
	KEY_ORDER_CUSTOMER_ID  = "customerId"
)
