package web

import (
	stdcontext "context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hoowhoami/gospring/framework/container"
	"github.com/hoowhoami/gospring/framework/logging"
	"github.com/hoowhoami/gospring/framework/plugin"
)

// Controller is implemented by beans that mount routes on the server.
type Controller interface {
	Routes(r chi.Router)
}

// ServerPlugin runs a chi HTTP server fed by controller beans. The server
// comes up during plugin startup and drains gracefully during plugin
// shutdown. Port and timeouts come from "server.*" properties.
type ServerPlugin struct {
	plugin.Base

	controllerBeans []string
	metrics         *Metrics

	server *http.Server
	addr   string
}

// NewServerPlugin lists the bean names that implement Controller. Each is
// resolved from the context at startup.
func NewServerPlugin(controllerBeans ...string) *ServerPlugin {
	return &ServerPlugin{
		controllerBeans: controllerBeans,
		metrics:         NewMetrics(),
	}
}

func (p *ServerPlugin) Name() string { return "webServer" }

// KeepAlive keeps the process up until a shutdown signal.
func (p *ServerPlugin) KeepAlive() bool { return true }

func (p *ServerPlugin) OnStartup(ctx *container.ApplicationContext) error {
	env := ctx.Environment()
	port := env.GetInt64Or("server.port", 8080)
	host := env.GetStringOr("server.host", "")
	readTimeout := env.GetStringOr("server.read-timeout", "15s")
	writeTimeout := env.GetStringOr("server.write-timeout", "15s")

	router, err := p.buildRouter(ctx)
	if err != nil {
		return err
	}

	p.addr = net.JoinHostPort(host, fmt.Sprintf("%d", port))
	p.server = &http.Server{
		Addr:         p.addr,
		Handler:      router,
		ReadTimeout:  parseDurationOr(readTimeout, 15*time.Second),
		WriteTimeout: parseDurationOr(writeTimeout, 15*time.Second),
	}

	ln, err := net.Listen("tcp", p.addr)
	if err != nil {
		return fmt.Errorf("web: listening on %s: %w", p.addr, err)
	}
	logging.L().Info("http server listening", zap.String("addr", p.addr))

	go func() {
		if err := p.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			logging.L().Error("http server failed", zap.Error(err))
		}
	}()
	return nil
}

func (p *ServerPlugin) buildRouter(ctx *container.ApplicationContext) (chi.Router, error) {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logging.L()))
	r.Use(middleware.Recoverer)
	r.Use(p.metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		NewResponse(w).JSON(http.StatusOK, map[string]any{
			"status": "UP",
			"app":    ctx.AppName(),
		})
	})
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(p.metrics.Registry, promhttp.HandlerOpts{}))

	for _, name := range p.controllerBeans {
		bean, err := ctx.GetBean(name)
		if err != nil {
			return nil, fmt.Errorf("web: resolving controller %q: %w", name, err)
		}
		controller, ok := bean.(Controller)
		if !ok {
			return nil, fmt.Errorf("web: bean %q (%T) does not implement web.Controller", name, bean)
		}
		controller.Routes(r)
		logging.L().Debug("mounted controller", zap.String("bean", name))
	}
	return r, nil
}

func (p *ServerPlugin) OnShutdown(*container.ApplicationContext) error {
	if p.server == nil {
		return nil
	}
	shutdownCtx, cancel := stdcontext.WithTimeout(stdcontext.Background(), 10*time.Second)
	defer cancel()
	if err := p.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: draining server: %w", err)
	}
	logging.L().Info("http server stopped", zap.String("addr", p.addr))
	return nil
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
