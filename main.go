package main

import (
	"fmt"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hoowhoami/gospring/framework/app"
	"github.com/hoowhoami/gospring/framework/config"
	"github.com/hoowhoami/gospring/framework/container"
	"github.com/hoowhoami/gospring/framework/event"
	"github.com/hoowhoami/gospring/framework/logging"
	"github.com/hoowhoami/gospring/framework/plugin"
	"github.com/hoowhoami/gospring/framework/web"
)

// ── Configuration properties ─────────────────────────────────────────────

// GreetingProperties binds the "greeting.*" subtree.
type GreetingProperties struct {
	Template string `config:"template" default:"Hello, %s!"`
	Audience string `config:"audience" default:"world" validate:"required"`
}

func init() {
	container.SubmitConfigurationProperties("greetingProperties",
		func(ctx *container.ApplicationContext) error {
			props := &GreetingProperties{}
			if err := config.Bind(ctx.Environment(), "greeting", props); err != nil {
				return err
			}
			return ctx.Register(container.NewDefinition[*GreetingProperties](
				"greetingProperties",
				func(*container.Resolver) (*GreetingProperties, error) { return props, nil },
			))
		})
}

// ── Components ───────────────────────────────────────────────────────────

type GreetingRepository struct {
	served atomic.Int64
}

func (r *GreetingRepository) Next() int64 { return r.served.Add(1) }

type GreetingService struct {
	props *GreetingProperties
	repo  *GreetingRepository
}

func (s *GreetingService) Greet() string {
	s.repo.Next()
	return fmt.Sprintf(s.props.Template, s.props.Audience)
}

func init() {
	container.SubmitComponent("greetingRepository",
		func(ctx *container.ApplicationContext) error {
			return ctx.Register(container.NewComponent(
				func(*container.Resolver) (*GreetingRepository, error) {
					return &GreetingRepository{}, nil
				}))
		})

	container.SubmitComponent("greetingService",
		func(ctx *container.ApplicationContext) error {
			def := container.NewComponent(
				func(r *container.Resolver) (*GreetingService, error) {
					props, err := container.ResolveBean[*GreetingProperties](r, "greetingProperties")
					if err != nil {
						return nil, err
					}
					repo, err := container.ResolveBean[*GreetingRepository](r, "greetingRepository")
					if err != nil {
						return nil, err
					}
					return &GreetingService{props: props, repo: repo}, nil
				}).
				WithDependsOn("greetingProperties", "greetingRepository").
				WithInit(container.Callback(func(s *GreetingService) error {
					logging.L().Info("greeting service ready")
					return nil
				}))
			return ctx.Register(def)
		})
}

// ── Event listener ───────────────────────────────────────────────────────

func init() {
	container.SubmitEventListener("startupAudit",
		func(*container.ApplicationContext) (event.Listener, error) {
			return event.Typed("startupAudit", func(e *event.ApplicationStartedEvent) {
				logging.L().Info("application up",
					zap.String("app", e.AppName),
					zap.Duration("took", e.StartupTime))
			}), nil
		})
}

// ── Controller ───────────────────────────────────────────────────────────

type GreetingController struct {
	service *GreetingService
}

func (c *GreetingController) Routes(r chi.Router) {
	r.Get("/greet", func(w http.ResponseWriter, _ *http.Request) {
		web.NewResponse(w).Success(map[string]any{"greeting": c.service.Greet()})
	})
}

func init() {
	container.SubmitComponent("greetingController",
		func(ctx *container.ApplicationContext) error {
			def := container.NewComponent(
				func(r *container.Resolver) (*GreetingController, error) {
					svc, err := container.ResolveBean[*GreetingService](r, "greetingService")
					if err != nil {
						return nil, err
					}
					return &GreetingController{service: svc}, nil
				}).WithDependsOn("greetingService")
			return ctx.Register(def)
		})

	plugin.Submit(func() plugin.ApplicationPlugin {
		return web.NewServerPlugin("greetingController")
	})
}

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("startup failed: %v", err)
	}
}
