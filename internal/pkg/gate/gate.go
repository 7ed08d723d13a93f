package gate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/facegate/facegate/app/models"
	"github.com/facegate/facegate/app/repository"
	"github.com/facegate/facegate/internal/pkg/inference"
	"github.com/facegate/facegate/internal/pkg/webhook"
)

const (
	// Endpoint is the name recorded in usage log rows.
	Endpoint = "/authenticate"

	// WebhookEvent is sent to project webhook URLs on success.
	WebhookEvent = "face_authentication.completed"

	// RateLimitWindow and RateLimitMax define the per-project short window:
	// at most 4 requests per trailing 60 seconds. Rejected requests are not
	// counted, so a burst of 4 followed by a full window pause succeeds.
	RateLimitWindow = time.Minute
	RateLimitMax    = 4
)

// Denial is a rejected or failed admission attempt, carrying the HTTP status
// and caller-facing message.
type Denial struct {
	Status  int
	Message string
}

func (d *Denial) Error() string { return d.Message }

var (
	ErrMissingKey           = &Denial{fiber.StatusUnauthorized, "Missing API Key"}
	ErrInvalidKey           = &Denial{fiber.StatusUnauthorized, "Invalid API Key"}
	ErrNoActiveSubscription = &Denial{fiber.StatusForbidden, "No active subscription"}
	ErrQuotaExceeded        = &Denial{fiber.StatusTooManyRequests, "Monthly plan limit reached."}
	ErrRateLimited          = &Denial{fiber.StatusTooManyRequests, "Rate limit exceeded (4 req/min). Please slow down."}
	ErrMissingImage         = &Denial{fiber.StatusBadRequest, "Missing 'image'"}
	ErrUpstream             = &Denial{fiber.StatusServiceUnavailable, "Server busy: You did too many requests, try after sometime."}
	ErrInternal             = &Denial{fiber.StatusInternalServerError, "Internal Server Error"}
)

// Image is the payload forwarded upstream. A nil *Image means the form field
// was absent.
type Image struct {
	Filename string
	Reader   io.Reader
}

// Gate decides, for a single inbound authentication request, whether to
// forward it to the inference engine, and records the outcome.
//
// Checks run cheapest and most restrictive first: key existence, then
// entitlement, then monthly quota, then the short rate window. The quota and
// rate counters are read-then-later-write without a transaction; concurrent
// requests against one project may overshoot the limit by design.
type Gate struct {
	Projects repository.ProjectRepository
	Logs     repository.ApiLogRepository
	Engine   *inference.Client
	Notifier *webhook.Notifier

	// Now is the clock used for quota and rate windows. Defaults to time.Now.
	Now func() time.Time
}

// New assembles a gate over the given repositories and collaborators.
func New(projects repository.ProjectRepository, logs repository.ApiLogRepository, engine *inference.Client, notifier *webhook.Notifier) *Gate {
	return &Gate{
		Projects: projects,
		Logs:     logs,
		Engine:   engine,
		Notifier: notifier,
		Now:      time.Now,
	}
}

// Authenticate runs the admission pipeline for one request. On success it
// returns the upstream engine's raw JSON body; on failure the returned error
// is a *Denial describing the caller-facing status and message.
//
// Exactly one log row is written per attempt that reaches or fails the
// upstream call. Attempts rejected by the key, subscription, quota, rate or
// payload checks write no row.
func (g *Gate) Authenticate(ctx context.Context, apiKey string, image *Image) (json.RawMessage, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}

	project, err := g.Projects.GetByAPIKey(apiKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidKey
		}
		log.Printf("gate: api key lookup failed: %v", err)
		return nil, ErrInternal
	}

	// From here on the attempt is attributable; unexpected failures are
	// logged with status 500 against this project.
	sub := project.User.Subscription
	if sub == nil || !sub.IsActive() {
		return nil, ErrNoActiveSubscription
	}

	usage, err := g.Logs.CountForUserSince(project.UserID, sub.CurrentPeriodStart)
	if err != nil {
		return nil, g.fail(project.ID, err)
	}
	if usage >= int64(sub.Plan.APICallLimit) {
		return nil, ErrQuotaExceeded
	}

	windowStart := g.now().Add(-RateLimitWindow)
	recent, err := g.Logs.CountForProjectSince(project.ID, windowStart)
	if err != nil {
		return nil, g.fail(project.ID, err)
	}
	if recent >= RateLimitMax {
		return nil, ErrRateLimited
	}

	if image == nil {
		return nil, ErrMissingImage
	}

	result, err := g.Engine.Authenticate(ctx, image.Filename, image.Reader)
	if err != nil {
		log.Printf("gate: upstream call failed: %v", err)
		g.record(project.ID, fiber.StatusInternalServerError)
		return nil, ErrUpstream
	}
	if !result.OK() {
		g.record(project.ID, result.StatusCode)
		return nil, ErrUpstream
	}

	// Webhook delivery is synchronous best-effort; its outcome never affects
	// the caller's response.
	if project.WebhookURL != "" {
		g.Notifier.Send(project.WebhookURL, WebhookEvent, result.Body)
	}

	g.record(project.ID, fiber.StatusOK)

	return result.Body, nil
}

func (g *Gate) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// record appends one usage row. Logging must never block the response, so
// failures are only logged server-side.
func (g *Gate) record(projectID uint, status int) {
	err := g.Logs.Create(&models.ApiLog{
		ProjectID: projectID,
		Endpoint:  Endpoint,
		Status:    status,
	})
	if err != nil {
		log.Printf("gate: failed to write usage log for project %d: %v", projectID, err)
	}
}

// fail handles an unexpected error after key resolution: one 500 row against
// the resolved project, generic denial to the caller.
func (g *Gate) fail(projectID uint, err error) error {
	log.Printf("gate: admission failed for project %d: %v", projectID, err)
	g.record(projectID, fiber.StatusInternalServerError)
	return ErrInternal
}
