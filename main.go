package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"

	"feedback-pulse-server/routes"
	"feedback-pulse-server/services"
	"feedback-pulse-server/storage"
	"feedback-pulse-server/utils"
)

func main() {
	db := storage.InitializeDB()
	rdb := storage.InitializeRedis()
	queue := storage.NewEnrichQueue(rdb)

	llm := services.NewChatCompletionClient()
	enricher := services.NewEnrichmentService(db, llm)
	worker := services.NewEnrichWorker(queue, enricher)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go worker.Run(workerCtx)

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the dashboard frontend
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With, "+utils.AuthHeaderName)
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	feedback := routes.NewFeedbackRoutes(db, queue)
	chat := routes.NewChatRoutes(
		services.NewIntentRouter(llm),
		services.NewQueryExecutor(db),
		services.NewAnswerComposer(llm),
	)

	api := app.Party("/api")
	{
		api.Post("/ingest", utils.AuthEmailMiddleware, feedback.Ingest)
		api.Post("/chat", utils.AuthEmailMiddleware, chat.Chat)
		api.Get("/app", feedback.AppView)
		api.Get("/dashboard", feedback.Dashboard)
		api.Get("/stats", feedback.Stats)
		api.Get("/feedback", feedback.ListFeedback)
		api.Get("/feedback/{id}", feedback.GetFeedback)
		api.Post("/feedback/{id}/close", utils.AuthEmailMiddleware, feedback.CloseFeedback)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Starting Feedback Pulse Server on :" + port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
