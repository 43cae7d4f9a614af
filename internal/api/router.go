package api

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"fintrack/docs"
	"fintrack/internal/api/handlers"
	"fintrack/pkg/auth"
	"fintrack/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by SetupRouter.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Transactions *handlers.TransactionHandler
	Export       *handlers.ExportHandler
	Mail         *handlers.MailHandler
}

type Options struct {
	AuthRateLimit int    // requests per minute per IP on /api/auth, 0 disables
	StaticDir     string // built dashboard, optional
	AccessLog     bool
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

func SetupRouter(h Handlers, jwtManager *auth.JWTManager, opts Options, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				message = e.Message
			} else {
				appLogger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"message": message,
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,Authorization",
		ExposeHeaders: "Content-Disposition",
	}))
	if opts.AccessLog {
		app.Use(logger.New())
	}

	// importing docs registers the swagger document
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	if opts.AuthRateLimit > 0 {
		authRoutes.Use(middleware.RateLimitAuth(opts.AuthRateLimit, appLogger))
	}
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/verify", h.Auth.VerifyOTP)
	authRoutes.Post("/resend-otp", h.Auth.ResendOTP)
	authRoutes.Post("/set-password", h.Auth.SetPassword)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/forgot-password", h.Auth.ForgotPassword)
	authRoutes.Post("/verify-reset-otp", h.Auth.VerifyResetOTP)
	authRoutes.Post("/reset-password", h.Auth.ResetPassword)

	txRoutes := api.Group("/transactions", middleware.AuthMiddleware(jwtManager, appLogger))
	txRoutes.Get("/summary", h.Transactions.Summary)
	txRoutes.Get("/status", h.Transactions.Status)
	txRoutes.Get("/status-category", h.Transactions.StatusCategory)
	txRoutes.Get("/trends/daily", h.Transactions.DailyTrend)
	txRoutes.Get("/trends/weekly", h.Transactions.WeeklyTrend)
	txRoutes.Get("/trends/monthly", h.Transactions.MonthlyTrend)
	txRoutes.Get("/recent", h.Transactions.Recent)
	txRoutes.Get("/list", h.Transactions.List)
	txRoutes.Get("/export/csv", h.Export.CSV)
	txRoutes.Get("/export/excel", h.Export.Excel)
	txRoutes.Get("/export/pdf", h.Export.PDF)

	api.Get("/mail/test", h.Mail.SendTest)

	if staticPath := findStaticPath(opts.StaticDir, appLogger); staticPath != "" {
		appLogger.Info("Serving dashboard", zap.String("path", staticPath))
		app.Static("/", staticPath, fiber.Static{Index: "index.html"})
	} else {
		appLogger.Debug("Dashboard directory not found, static files will not be served")
	}

	return app
}

// findStaticPath returns the first candidate directory holding index.html.
func findStaticPath(configured string, logger *zap.Logger) string {
	paths := []string{
		"./web/static",
		"../web/static",
		"../../web/static",
	}
	if configured != "" {
		paths = append([]string{configured}, paths...)
	}

	for _, path := range paths {
		if fileExists(filepath.Join(path, "index.html")) {
			return path
		}
		logger.Debug("Tried static path", zap.String("path", path))
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
