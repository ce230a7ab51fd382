package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	docs "github.com/lockedin-labs/lockin_api/docs"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"github.com/lockedin-labs/lockin_api/services/handlers"
	"github.com/lockedin-labs/lockin_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc      *AuthService
	rateLimitSvc *RateLimitService

	focusHandler       *handlers.FocusHandler
	challengeHandler   *handlers.ChallengeHandler
	leaderboardHandler *handlers.LeaderboardHandler

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)

	focusSvc := svc.Service(FOCUS_SVC).(*FocusService)
	challengeSvc := svc.Service(CHALLENGE_SVC).(*ChallengeService)
	leaderboardSvc := svc.Service(LEADERBOARD_SVC).(*LeaderboardService)

	svc.focusHandler = handlers.NewFocusHandler(focusSvc)
	svc.challengeHandler = handlers.NewChallengeHandler(challengeSvc)
	svc.leaderboardHandler = handlers.NewLeaderboardHandler(leaderboardSvc)

	docs.SwaggerInfo.BasePath = ""

	app := fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		ErrorHandler: svc.errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
	}))
	app.Use(MonitoringMiddleware())

	if os.Getenv("LOG_LEVEL") == "TRACE" {
		app.Use(logger.New())
	}

	//Validation endpoints
	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	focus := v1.Group("/focus", svc.authSvc.RequiredAuth())
	focus.Post("/start", svc.rateLimitSvc.Middleware("focus_start"), svc.focusHandler.StartFocus)
	focus.Post("/stop", svc.rateLimitSvc.Middleware("focus_stop"), svc.focusHandler.StopFocus)
	focus.Post("/reset", svc.rateLimitSvc.Middleware("focus_stop"), svc.focusHandler.ResetFocus)
	focus.Get("/today", svc.focusHandler.FocusedToday)

	challenges := v1.Group("/challenges", svc.authSvc.RequiredAuth())
	challenges.Post("/", svc.rateLimitSvc.Middleware("challenge_create"), svc.challengeHandler.CreateChallenge)
	challenges.Post("/join", svc.challengeHandler.JoinChallenge)
	challenges.Get("/:id", svc.challengeHandler.GetChallenge)
	challenges.Get("/:id/leaderboard", svc.leaderboardHandler.GetLeaderboard)

	svc.server = app
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c, err)
}
