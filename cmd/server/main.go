package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mkorolev/dp-store/internal/app"
	"github.com/mkorolev/dp-store/internal/app/handlers"
	"github.com/mkorolev/dp-store/internal/cart"
	"github.com/mkorolev/dp-store/internal/config"
	"github.com/mkorolev/dp-store/internal/lib/jwt/jwtmiddleware"
	"github.com/mkorolev/dp-store/internal/lib/logger"
	"github.com/mkorolev/dp-store/internal/lib/logger/handlers/urllog"
	"github.com/mkorolev/dp-store/internal/service"
	"github.com/mkorolev/dp-store/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	categoryRepo := storage.NewCategoryRepository(application.DB)
	sizeRepo := storage.NewSizeRepository(application.DB)
	attrRepo := storage.NewAttributeRepository(application.DB)
	imageRepo := storage.NewImageRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	achRepo := storage.NewAchievementRepository(application.DB)

	jwtSecret := []byte(cfg.JWT.Secret)
	tokenTTL := time.Duration(cfg.JWT.TokenTTL) * time.Minute

	authService := service.NewAuthService(application.Logger, userRepo, jwtSecret, tokenTTL)
	checkoutService := service.NewCheckoutService(application.Logger, application.DB, authService, attrRepo, orderRepo)
	cartViewService := service.NewCartViewService(application.Logger, attrRepo)
	exportService := service.NewExportService(application.Logger, orderRepo)
	catalogService := service.NewCatalogService(application.Logger, productRepo, categoryRepo, sizeRepo, attrRepo, imageRepo)
	orderService := service.NewOrderService(application.Logger, userRepo, orderRepo)
	imageService := service.NewImageService(application.Logger, imageRepo)
	userService := service.NewUserService(application.Logger, userRepo)
	achievementService := service.NewAchievementService(application.Logger, achRepo, userRepo)

	// корзина живет в подписанной cookie
	cartCodec := cart.NewCookieCodec([]byte(cfg.Cart.CookieSecret), cfg.Cart.CookieTTL())

	cartHandler := handlers.NewCartHandler(application.Logger, cartCodec, cartViewService)
	productsHandler := handlers.NewProductsHandler(application.Logger, catalogService)
	attributesHandler := handlers.NewAttributesHandler(application.Logger, catalogService)
	categoriesHandler := handlers.NewCategoriesHandler(application.Logger, catalogService)
	sizesHandler := handlers.NewSizesHandler(application.Logger, catalogService)
	imagesHandler := handlers.NewImagesHandler(application.Logger, imageService)
	ordersHandler := handlers.NewOrdersHandler(application.Logger, orderService)
	achievementsHandler := handlers.NewAchievementsHandler(application.Logger, achievementService)
	usersHandler := handlers.NewUsersHandler(application.Logger, userService)

	// аутентификация
	router.Post("/api/auth/register", handlers.RegisterHandler(application.Logger, authService))
	router.Post("/api/auth/login", handlers.LoginHandler(application.Logger, authService, tokenTTL))

	// корзина и оформление; токен проверяется внутри сервиса оформления
	router.Route("/api/cart", func(r chi.Router) {
		r.Get("/", cartHandler.View())
		r.Post("/add", cartHandler.Add())
		r.Post("/update", cartHandler.Update())
		r.Get("/quantity", cartHandler.Quantity())
		r.Post("/remove", cartHandler.Remove())
		r.Post("/checkout", handlers.CheckoutHandler(application.Logger, checkoutService, cartCodec))
		r.Post("/export", handlers.ExportHandler(application.Logger, exportService))
	})

	// каталог
	router.Route("/api/products", func(r chi.Router) {
		r.Get("/", productsHandler.List())
		r.Get("/{id}", productsHandler.Get())
		r.Post("/", productsHandler.Create())
		r.Put("/{id}", productsHandler.Update())
		r.Delete("/{id}", productsHandler.Delete())
	})
	router.Route("/api/categories", func(r chi.Router) {
		r.Get("/", categoriesHandler.List())
		r.Post("/", categoriesHandler.Create())
		r.Put("/{id}", categoriesHandler.Update())
		r.Delete("/{id}", categoriesHandler.Delete())
	})
	router.Route("/api/attributes", func(r chi.Router) {
		r.Get("/", attributesHandler.List())
		r.Post("/", attributesHandler.Create())
		r.Put("/{id}", attributesHandler.Update())
		r.Delete("/{id}", attributesHandler.Delete())
	})
	router.Route("/api/sizes", func(r chi.Router) {
		r.Get("/", sizesHandler.List())
		r.Post("/", sizesHandler.Create())
		r.Delete("/{id}", sizesHandler.Delete())
	})
	router.Route("/api/images", func(r chi.Router) {
		r.Get("/", imagesHandler.List())
		r.Get("/by-product/{id}", imagesHandler.ListByProduct())
		r.Get("/{id}/data", imagesHandler.Data())
		r.Post("/", imagesHandler.Create())
		r.Delete("/{id}", imagesHandler.Delete())
	})

	// достижения
	router.Route("/api/achievements", func(r chi.Router) {
		r.Get("/", achievementsHandler.List())
		r.Get("/{id}", achievementsHandler.Get())
		r.Post("/", achievementsHandler.Create())
		r.Delete("/{id}", achievementsHandler.Delete())
	})
	// пользователи (только чтение) и их достижения
	router.Route("/api/users", func(r chi.Router) {
		r.Get("/", usersHandler.List())
		r.Get("/{userID}", usersHandler.Get())
		r.Route("/{userID}/achievements", func(r chi.Router) {
			r.Get("/", achievementsHandler.ListByUser())
			r.Post("/", achievementsHandler.Award())
		})
	})

	// заказы доступны только с валидным токеном
	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.New(jwtSecret))
		r.Get("/api/orders", ordersHandler.List())
		r.Get("/api/orders/{id}", ordersHandler.Get())
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
