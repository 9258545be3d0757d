package cmd

import (
	"context"

	"github.com/gorilla/mux"

	"github.com/Alturino/ordering/internal/constants"
	"github.com/Alturino/ordering/internal/server"
	"github.com/Alturino/ordering/user/internal/controller"
	"github.com/Alturino/ordering/user/internal/otel"
	"github.com/Alturino/ordering/user/internal/service"
)

func AttachUserService(api *mux.Router, deps server.Dependencies) {
	userService := service.NewUserService(deps.Store, deps.Config.Application)
	controller.AttachUserController(api, userService, deps.Auth)
}

func RunUserService(c context.Context) error {
	c, span := otel.Tracer.Start(c, "RunUserService")
	defer span.End()

	return server.Run(c, constants.APP_USER_SERVICE, AttachUserService)
}
