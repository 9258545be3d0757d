package constants

const (
	APP_API_SERVICE        = "api-service"
	APP_USER_SERVICE       = "user-service"
	APP_RESTAURANT_SERVICE = "restaurant-service"
	APP_ORDER_SERVICE      = "order-service"
	APP_ORDER_CLIENT       = "order-client"
	APP_NOTIFICATION       = "notification-service"
	APP_MAIN_ORDERING      = "main ordering"
	AUDIENCE_USER          = "audience-user"
)
