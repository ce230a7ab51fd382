package services

import (
	stdContext "context"
	"fmt"
	"sync"
	"time"

	"github.com/lockedin-labs/lockin_api/shared"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// RateLimitService applies fixed-window limits to the timer endpoints. The
// window counters live in redis so limits hold across instances.
type RateLimitService struct {
	context.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	redisSvc *RedisService
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	Description  string
	IsActive     bool
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc *RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
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
		"focus_start": {
			EndpointType: "focus_start",
			MaxRequests:  30,
			WindowSize:   time.Minute,
			Description:  "Focus session start rate limit",
			IsActive:     true,
		},
		"focus_stop": {
			EndpointType: "focus_stop",
			MaxRequests:  60,
			WindowSize:   time.Minute,
			Description:  "Focus session stop rate limit",
			IsActive:     true,
		},
		"challenge_create": {
			EndpointType: "challenge_create",
			MaxRequests:  10,
			WindowSize:   time.Hour,
			Description:  "Challenge creation rate limit",
			IsActive:     true,
		},
	}
}

func (svc *RateLimitService) configFor(endpointType string) *RateLimitConfig {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()
	return svc.configs[endpointType]
}

// Middleware enforces the configured limit for an endpoint type, keyed by the
// authenticated user when present and the client IP otherwise.
func (svc *RateLimitService) Middleware(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		config := svc.configFor(endpointType)
		if config == nil || !config.IsActive {
			return c.Next()
		}

		identity := c.IP()
		if userID, ok := c.Locals(shared.UserID).(string); ok && userID != "" {
			identity = userID
		}

		key := fmt.Sprintf("rl:%s:%s", endpointType, identity)
		count, err := svc.redisSvc.IncrWithWindow(c.Context(), key, config.WindowSize)
		if err != nil {
			// Fail open: losing the limiter must not take down the timer.
			log.WithError(err).WithField("endpoint_type", endpointType).
				Warn("Rate limit check failed")
			return c.Next()
		}

		if count > int64(config.MaxRequests) {
			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", fiber.Map{
				"retry_after_seconds": int(config.WindowSize.Seconds()),
			})
		}

		return c.Next()
	}
}

// Reset clears the window for an identity, used by admin tooling and tests.
func (svc *RateLimitService) Reset(endpointType, identity string) error {
	key := fmt.Sprintf("rl:%s:%s", endpointType, identity)
	return svc.redisSvc.Delete(stdContext.Background(), key)
}
