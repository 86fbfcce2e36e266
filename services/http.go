package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	_ "github.com/dev-quest/quest_api/docs"
	"github.com/dev-quest/quest_api/dto"
	"github.com/dev-quest/quest_api/services/handlers"
	"github.com/dev-quest/quest_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc        *AuthService
	taskSvc        *TaskService
	progressionSvc *ProgressionService
	challengeSvc   *ChallengeService
	leaderboardSvc *LeaderboardService
	userSvc        *UserService
	mediaSvc       *MediaService
	socketSvc      *SocketService
	rateLimitSvc   *RateLimitService
	monitoringSvc  *MonitoringService

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

// Start builds the router and blocks on the listener; it must be the last
// service in the runtime chain.
func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.taskSvc = svc.Service(TASK_SVC).(*TaskService)
	svc.progressionSvc = svc.Service(PROGRESSION_SVC).(*ProgressionService)
	svc.challengeSvc = svc.Service(CHALLENGE_SVC).(*ChallengeService)
	svc.leaderboardSvc = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	svc.userSvc = svc.Service(USER_SVC).(*UserService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.socketSvc = svc.Service(SOCKET_SVC).(*SocketService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	app := fiber.New(fiber.Config{
		JSONEncoder:           shared.JSONMarshal,
		JSONDecoder:           shared.JSONUnmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "*"
	}

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	app.Use("/ws", svc.socketSvc.UpgradeMiddleware())
	app.Get("/ws", svc.socketSvc.Handler())

	authHandler := handlers.NewAuthHandler(svc.authSvc)
	taskHandler := handlers.NewTaskHandler(svc.taskSvc)
	achievementHandler := handlers.NewAchievementHandler(svc.progressionSvc)
	challengeHandler := handlers.NewChallengeHandler(svc.challengeSvc)
	leaderboardHandler := handlers.NewLeaderboardHandler(svc.leaderboardSvc)
	profileHandler := handlers.NewProfileHandler(svc.userSvc, svc.mediaSvc)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	v1.Post("/register", svc.rateLimitSvc.RateLimit("register"), authHandler.Register)
	v1.Post("/login", svc.rateLimitSvc.RateLimit("login"), authHandler.Login)
	v1.Post("/forgotpassword", svc.rateLimitSvc.RateLimit("forgot_password"), authHandler.ForgotPassword)
	v1.Put("/resetpassword", svc.rateLimitSvc.RateLimit("forgot_password"), authHandler.ResetPassword)

	protected := v1.Group("", svc.authSvc.RequiredAuth())

	protected.Post("/tasks", taskHandler.CreateTask)
	protected.Get("/tasks", taskHandler.GetTasks)
	protected.Get("/tasks/:id", taskHandler.GetTask)
	protected.Put("/tasks/:id", taskHandler.UpdateTask)
	protected.Delete("/tasks/:id", taskHandler.DeleteTask)
	protected.Put("/tasks/:id/complete", svc.rateLimitSvc.RateLimit("task_complete"), taskHandler.CompleteTask)

	protected.Get("/stats", achievementHandler.GetStats)
	protected.Get("/achievements/stats", achievementHandler.GetAchievementStats)

	protected.Get("/challenges/daily", challengeHandler.GetDaily)
	protected.Put("/challenges/:id/complete", svc.rateLimitSvc.RateLimit("task_complete"), challengeHandler.Complete)

	protected.Get("/leaderboard", leaderboardHandler.GetLeaderboard)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Get("/profile/stats", profileHandler.GetProfileStats)
	protected.Put("/profile/avatar", svc.rateLimitSvc.RateLimit("avatar_upload"), profileHandler.UploadAvatar)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app

	log.WithField("port", svc.port).Info("HTTP server listening")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description Health check
// @Tags health
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")
	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

// errorHandler maps service errors onto the response envelope. AppErrors keep
// their status; validation errors carry the per-field breakdown.
func errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		data := appErr.Data
		if data == nil {
			if _, isValidation := appErr.Err.(validator.ValidationErrors); isValidation {
				data = dto.FormatValidationErrors(appErr.Err)
			}
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c, err)
}
