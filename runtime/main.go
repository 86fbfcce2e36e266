package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/dev-quest/quest_api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using system environment")
	}

	ctx, err := context.NewCtx(
		&services.MonitoringService{},
		&services.SqlService{},
		&services.RedisService{},
		&services.MinIOService{},

		&services.JWTService{},
		&services.EmailService{},
		&services.AuthService{},
		&services.RateLimitService{},

		&services.CatalogService{},
		&services.ProgressionService{},
		&services.SocketService{},
		&services.TaskService{},
		&services.ChallengeService{},
		&services.LeaderboardService{},
		&services.UserService{},
		&services.MediaService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
