package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"bbs-backend/config"
	apiv1 "bbs-backend/controllers/v1"
	"bbs-backend/fiberlog"
	"bbs-backend/initializers"
	"bbs-backend/middleware"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	bodyLimit := config.Conf.App.BodyLimitMB * 1024 * 1024
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	app.Use(fiberRecover.New())

	if *config.Conf.App.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			Path:     "/swagger",
			FilePath: "./docs/swagger.json",
		}))
	}

	//api
	api := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	api.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api", api)
	api.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, PUT",
	}))
	api.Use(middleware.ErrNotify(config.Conf.App.ErrNotifyURL))
	// multipart uploads are bounded by the app limit only
	api.Use(middleware.WithBodyLimit(1024*1024, "/upload"))
	apiv1.InitDataApiRouters(api)
	apiv1.InitApprovalApiRouters(api)
	apiv1.InitUploadApiRouters(api)
	apiv1.InitDashboardApiRouters(api)
	apiv1.InitTaxonomyApiRouters(api)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	wg := sync.WaitGroup{}
	go func() {
		_ = <-c
		wg.Add(1)
		defer wg.Done()
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
