package http

const (
	KEY_HEADER_ACCEPT        = "Accept"
	KEY_HEADER_AUTHORIZATION = "Authorization"
	KEY_HEADER_CONTENT_TYPE  = "Content-Type"
	KEY_HEADER_REQUEST_ID    = "X-Request-Id"
)

const (
	VALUE_HEADER_APPLICATION_JSON = "application/json"
	VALUE_HEADER_IMAGE_PNG        = "image/png"
	VALUE_BEARER_PREFIX           = "Bearer "
)
