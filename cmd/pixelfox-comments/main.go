package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/ManuelReschke/PixelFoxComments/app/repository"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/cache"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/database"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/env"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/jobqueue"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/router"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/statistics"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := runSeed(os.Args[2:], os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	app, queue := NewApplication()
	queue.Start()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Errorf("Server shutdown failed: %v", err)
		}
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	queue.Stop()
	if cerr := cache.Close(); cerr != nil {
		log.Warnf("Closing Redis client failed: %v", cerr)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func NewApplication() (*fiber.App, *jobqueue.Queue) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()

	queue := jobqueue.NewQueue(env.GetEnvInt("EMOTION_WORKERS", 3), repos.Comment)

	app := fiber.New(fiber.Config{
		BodyLimit:         64 * 1024,
		EnablePrintRoutes: env.IsDev(),
	})

	// recovery, request ids and logging
	app.Use(recover.New(), requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}), logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// ROUTER
	router.InstallRouter(app, router.Dependencies{
		Repositories: repos,
		Emotions:     queue,
		Activity:     counter.NewRecorder(cache.GetClient()),
		Statistics:   statistics.NewService(database.GetDB(), cache.GetClient()),
	}, router.NewLimiterStorage())

	return app, queue
}
