package cmd

import (
	"context"

	"github.com/gorilla/mux"

	"github.com/Alturino/ordering/internal/constants"
	"github.com/Alturino/ordering/internal/server"
	"github.com/Alturino/ordering/order/internal/controller"
	"github.com/Alturino/ordering/order/internal/otel"
	"github.com/Alturino/ordering/order/internal/service"
)

func AttachOrderService(api *mux.Router, deps server.Dependencies) {
	orderService := service.NewOrderService(deps.Store, deps.EntityCache(), deps.Publisher)
	controller.AttachOrderController(api, orderService, deps.Auth)
}

func RunOrderService(c context.Context) error {
	c, span := otel.Tracer.Start(c, "RunOrderService")
	defer span.End()

	return server.Run(c, constants.APP_ORDER_SERVICE, AttachOrderService)
}
