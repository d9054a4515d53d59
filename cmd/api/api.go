package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reviewdesk/docs" //this is required to generate swagger docs
	"reviewdesk/internal/auth"
	"reviewdesk/internal/mailer"
	"reviewdesk/internal/notifications"
	"reviewdesk/internal/ratelimiter"
	"reviewdesk/internal/report"
	"reviewdesk/internal/sharecode"
	"reviewdesk/internal/store"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	reports       *report.Engine
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	push          notifications.PushSender
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	shareCodes    *sharecode.Codec
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	rateLimiter ratelimiter.Config
	shareSalt   string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	refreshSecret   string
	secret          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	exp       time.Duration
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// Request context timeout; further processing stops once it fires.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)
		r.With(app.BasicAuthMiddleware()).Get("/dashboard/overview", app.dashboardOverviewHandler)

		r.Route("/businesses", func(r chi.Router) {
			r.With(app.AuthTokenMiddleware).Post("/", app.createBusinessHandler)
			r.Get("/by-slug/{slug}", app.getBusinessBySlugHandler)

			r.Route("/{businessID}", func(r chi.Router) {
				r.Get("/", app.getBusinessHandler)
				r.Get("/summary", app.ratingSummaryHandler)
				r.Get("/report", app.reportHandler)

				r.Get("/reviews", app.listReviewsHandler)
				r.Post("/reviews", app.createReviewHandler)
				r.With(app.AuthTokenMiddleware).Delete("/reviews/{reviewID}", app.deleteReviewHandler)

				r.Get("/questions", app.listQuestionsHandler)
				r.With(app.AuthTokenMiddleware).Post("/questions", app.createQuestionHandler)
				r.With(app.AuthTokenMiddleware).Post("/stars", app.createStarHandler)

				r.Get("/hours", app.listHoursHandler)
				r.With(app.AuthTokenMiddleware).Put("/hours", app.replaceHoursHandler)

				r.With(app.AuthTokenMiddleware).Post("/logo", app.uploadLogoHandler)
				r.With(app.AuthTokenMiddleware).Delete("/logo", app.deleteLogoHandler)

				r.With(app.AuthTokenMiddleware).Get("/share-link", app.shareLinkHandler)
				r.With(app.AuthTokenMiddleware).Post("/report/email", app.emailReportHandler)
			})
		})

		r.Route("/questions/{questionID}", func(r chi.Router) {
			r.Get("/star-tags", app.listStarTagsHandler)
			r.With(app.AuthTokenMiddleware).Post("/star-tags", app.addStarTagHandler)
		})

		r.Get("/tags", app.listTagsHandler)
		r.Get("/reports/{code}", app.sharedReportHandler)

		// Route that does NOT require authentication
		r.Put("/users/activate/{token}", app.activateUserHandler)

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/push-tokens", app.savePushTokenHandler)
			r.Delete("/push-tokens", app.removePushTokenHandler)
			r.Delete("/push-tokens/bulk", app.bulkRemovePushTokensHandler)
		})

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
