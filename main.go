package main

import (
	"fmt"
	"log"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/pixora-app/pixora/app/controllers"
	"github.com/pixora-app/pixora/app/repository"
	"github.com/pixora-app/pixora/internal/pkg/cache"
	"github.com/pixora-app/pixora/internal/pkg/credits"
	"github.com/pixora-app/pixora/internal/pkg/database"
	"github.com/pixora-app/pixora/internal/pkg/editor"
	"github.com/pixora-app/pixora/internal/pkg/env"
	"github.com/pixora-app/pixora/internal/pkg/jobqueue"
	"github.com/pixora-app/pixora/internal/pkg/provider"
	"github.com/pixora-app/pixora/internal/pkg/router"
	"github.com/pixora-app/pixora/internal/pkg/s3mirror"
	"github.com/pixora-app/pixora/internal/pkg/transform"
	"github.com/pixora-app/pixora/internal/pkg/uploader"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	cache.SetupCache()
	database.SetupDatabase()
	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()

	providerCfg, err := provider.LoadConfig()
	if err != nil {
		log.Fatalf("provider config: %v", err)
	}
	providerClient := provider.NewClient(providerCfg)

	// S3 mirroring is optional; the app runs fine without it
	mirrorCfg, err := s3mirror.LoadConfig()
	if err != nil {
		log.Fatalf("s3 mirror config: %v", err)
	}
	var mirrorClient *s3mirror.Client
	if mirrorCfg.IsEnabled() {
		mirrorClient, err = s3mirror.NewClient(mirrorCfg)
		if err != nil {
			log.Fatalf("s3 mirror setup: %v", err)
		}
	}

	queue := jobqueue.NewQueue(cache.GetClient(), env.GetEnvInt("JOB_WORKERS", 3))
	if mirrorClient != nil {
		queue.Register(jobqueue.JobTypeMirrorMedia, jobqueue.NewMirrorMediaHandler(mirrorClient, repos.Media))
	}
	queue.Register(jobqueue.JobTypeProviderDelete, jobqueue.NewProviderDeleteHandler(providerClient, mirrorClient, mirrorCfg))
	jobManager := jobqueue.InitializeManager(queue)

	var mirror uploader.Mirror
	if mirrorClient != nil {
		mirror = jobManager
	}
	pipeline := uploader.NewPipeline(
		credits.NewLedger(repos.User),
		providerClient,
		providerCfg,
		repos.Media,
		mirror,
	)

	// Editor sessions publish their state to the cache so the studio
	// front-end can poll it.
	editorManager := editor.NewManager(transform.NewPoller(0, 0), func(userID uint, snap editor.Snapshot) {
		_ = transform.SaveStatus(userID, transform.Status{
			State:    snap.State,
			Tool:     snap.ActiveTool,
			URL:      snap.DisplayURL,
			Attempts: snap.Attempts,
		})
	})

	controllers.Setup(pipeline, providerCfg, editorManager)

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views:     engine,
		BodyLimit: 104857600, // 100 MiB, the paid plan's upload ceiling
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())
	app.Static("/", "./public/assets")

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}
