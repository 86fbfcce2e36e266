package services

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/dev-quest/quest_api/shared"
)

// RateLimitService keeps fixed-window counters in Redis so limits hold
// across process restarts and replicas.
type RateLimitService struct {
	appContext.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	redisSvc *RedisService
}

type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int64
	WindowSize   time.Duration
	Message      string
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.configs = make(map[string]*RateLimitConfig)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.initDefaultConfigs()
	return nil
}

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		"login": {
			EndpointType: "login",
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			Message:      "Too many login attempts. Please try again later.",
		},
		"register": {
			EndpointType: "register",
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			Message:      "Too many registration attempts. Please try again later.",
		},
		"forgot_password": {
			EndpointType: "forgot_password",
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			Message:      "Too many password reset requests. Please try again later.",
		},
		"task_complete": {
			EndpointType: "task_complete",
			MaxRequests:  60,
			WindowSize:   time.Hour,
			Message:      "Too many quest completions. Please take a break.",
		},
		"avatar_upload": {
			EndpointType: "avatar_upload",
			MaxRequests:  10,
			WindowSize:   time.Hour,
			Message:      "Too many avatar uploads. Please try again later.",
		},
		"api_general": {
			EndpointType: "api_general",
			MaxRequests:  1000,
			WindowSize:   time.Hour,
			Message:      "Too many requests. Please slow down.",
		},
	}
}

// IsAllowed increments the caller's window counter and reports whether the
// request may proceed plus how many requests remain.
func (svc *RateLimitService) IsAllowed(ctx context.Context, identifier, endpointType string) (bool, int64, time.Duration, error) {
	svc.mutex.RLock()
	config, exists := svc.configs[endpointType]
	svc.mutex.RUnlock()

	if !exists {
		return true, -1, 0, nil
	}

	window := time.Now().Unix() / int64(config.WindowSize.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%s:%d", endpointType, identifier, window)

	count, err := svc.redisSvc.Increment(ctx, key)
	if err != nil {
		return false, 0, 0, err
	}

	if count == 1 {
		if err := svc.redisSvc.Expire(ctx, key, config.WindowSize); err != nil {
			log.WithError(err).WithField("key", key).Warn("Failed to set rate limit TTL")
		}
	}

	remaining := config.MaxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	if count > config.MaxRequests {
		retryAfter, _ := svc.redisSvc.TTL(ctx, key)
		return false, 0, retryAfter, nil
	}

	return true, remaining, 0, nil
}

// RateLimit builds a middleware for the given endpoint type. Authenticated
// requests are limited per user, anonymous ones per client IP.
func (svc *RateLimitService) RateLimit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := svc.getIdentifier(c)

		allowed, remaining, retryAfter, err := svc.IsAllowed(c.Context(), identifier, endpointType)
		if err != nil {
			// Redis trouble should not lock users out.
			log.WithError(err).WithField("endpoint", endpointType).Warn("Rate limit check failed")
			return c.Next()
		}

		if remaining >= 0 {
			c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		}

		if !allowed {
			if retryAfter > 0 {
				c.Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			}
			svc.mutex.RLock()
			message := svc.configs[endpointType].Message
			svc.mutex.RUnlock()
			return shared.NewTooManyRequestsError(fmt.Errorf("rate limit exceeded for %s", endpointType), message)
		}

		return c.Next()
	}
}

func (svc *RateLimitService) getIdentifier(c *fiber.Ctx) string {
	if userID, ok := c.Locals(shared.UserID).(string); ok && userID != "" {
		return userID
	}
	return getClientIP(c)
}

func getClientIP(c *fiber.Ctx) string {
	forwarded := c.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(ips[0]); ip != "" {
			return ip
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(c.Context().RemoteAddr().String())
	if err != nil {
		return c.Context().RemoteAddr().String()
	}

	return ip
}
