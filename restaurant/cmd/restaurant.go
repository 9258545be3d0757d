package cmd

import (
	"context"

	"github.com/gorilla/mux"

	"github.com/Alturino/ordering/internal/constants"
	"github.com/Alturino/ordering/internal/server"
	"github.com/Alturino/ordering/restaurant/internal/controller"
	"github.com/Alturino/ordering/restaurant/internal/otel"
	"github.com/Alturino/ordering/restaurant/internal/service"
)

func AttachRestaurantService(api *mux.Router, deps server.Dependencies) {
	restaurantService := service.NewRestaurantService(deps.Store, deps.EntityCache())
	controller.AttachRestaurantController(api, restaurantService, deps.Auth)
}

func RunRestaurantService(c context.Context) error {
	c, span := otel.Tracer.Start(c, "RunRestaurantService")
	defer span.End()

	return server.Run(c, constants.APP_RESTAURANT_SERVICE, AttachRestaurantService)
}
