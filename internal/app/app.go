package app

import (
	"context"
	"fmt"

	"portfolio/internal/autosave"
	"portfolio/internal/config"
	"portfolio/internal/db"
	"portfolio/internal/handlers"
	"portfolio/internal/icons"
	"portfolio/internal/logger"
	"portfolio/internal/realtime"
	"portfolio/internal/repository"
	"portfolio/internal/routes"
	"portfolio/internal/sanitize"
	"portfolio/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// App — собранный сервис: роутер и всё, что нужно остановить при выходе.
type App struct {
	Router   *mux.Router
	Store    *services.ContentStore
	Registry *services.IconCategoryRegistry

	closers []func(context.Context)
}

// Shutdown останавливает фоновые части в обратном порядке запуска.
func (a *App) Shutdown(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}
	a.closers = nil
}

func (a *App) onShutdown(fn func(context.Context)) { a.closers = append(a.closers, fn) }

// InitStore поднимает хранилище контента: репозиторий выбранного драйвера,
// шину изменений и (если задан REDIS_URL) мост между экземплярами.
func InitStore(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	var repo repository.DocumentRepo
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Log.Warn("Хранилище в памяти: контент не сохраняется между запусками")
		repo = repository.NewMemoryDocumentRepo()
	default:
		conn, err := db.NewPostgresConnection(cfg)
		if err != nil {
			return nil, fmt.Errorf("postgres %s: %w", cfg.GetDSNSafe(), err)
		}
		a.onShutdown(func(context.Context) { conn.Close() })
		if err := db.Migrate(ctx, conn); err != nil {
			a.Shutdown(ctx)
			return nil, err
		}
		repo = repository.NewDocumentRepo(conn)
	}

	hub := realtime.NewHub()
	if cfg.RedisURL != "" {
		startRedisBridge(ctx, a, cfg.RedisURL, hub)
	}

	a.Store = services.NewContentStore(repo, hub)
	a.Registry = services.NewIconCategoryRegistry(a.Store)
	return a, nil
}

// Redis не обязателен: без него подписчики видят только записи этого экземпляра.
func startRedisBridge(ctx context.Context, a *App, url string, hub *realtime.Hub) {
	client, err := realtime.NewRedisClient(url)
	if err != nil {
		logger.Log.Warn("Redis недоступен, realtime только внутри экземпляра", zap.Error(err))
		return
	}
	bridge := realtime.NewRedisBridge(client, hub)
	if err := bridge.Start(ctx); err != nil {
		logger.Log.Warn("Не удалось запустить redis-мост", zap.Error(err))
		_ = client.Close()
		return
	}
	a.onShutdown(func(context.Context) {
		_ = bridge.Close()
		_ = client.Close()
	})
}

func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	a, err := InitStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := a.Registry.EnsureDefaultCategories(ctx); err != nil {
		logger.Log.Warn("Категории иконок по умолчанию не созданы", zap.Error(err))
	}

	resolver := icons.NewResolver(icons.SimpleIcons())
	sanitizer := sanitize.New()

	// Почта
	emailService := services.NewEmailService(cfg)
	emailQueue := services.NewEmailQueue(emailService, 100)
	emailQueue.Start()
	a.onShutdown(emailQueue.Stop)
	notifier := services.NewNotifier(emailQueue, cfg.AdminEmail, cfg.SiteURL)

	// Поиск
	var index services.SearchIndex
	if cfg.MeiliURL != "" {
		meili := services.NewMeiliIndex(cfg.MeiliURL, cfg.MeiliMasterKey)
		a.onShutdown(func(context.Context) { meili.Close() })
		index = meili
	}
	searchService := services.NewSearchService(a.Store, index)
	if err := searchService.Start(ctx); err != nil {
		logger.Log.Warn("Поиск запущен без индекса", zap.Error(err))
	}
	a.onShutdown(func(context.Context) { searchService.Stop() })

	// Загрузки
	var uploadService *services.UploadService
	if cfg.MinioEndpoint != "" {
		client, err := services.NewMinioClient(ctx, cfg)
		if err != nil {
			logger.Log.Warn("MinIO недоступен, загрузка файлов отключена", zap.Error(err))
		} else {
			uploadService = services.NewUploadService(client, cfg.MinioBucket, services.PublicBaseURL(cfg))
		}
	}

	autosaveManager := autosave.NewManager(a.Store, cfg.AutosaveDelay())
	a.onShutdown(autosaveManager.Close)

	authService := services.NewAuthService(cfg)
	projectService := services.NewProjectService(a.Store, resolver)
	contactService := services.NewContactService(a.Store, notifier)
	blogService := services.NewBlogService(a.Store, sanitizer)

	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Content:  handlers.NewContentHandler(a.Store, sanitizer),
		Stream:   handlers.NewStreamHandler(a.Store, sanitizer),
		Projects: handlers.NewProjectHandler(projectService, sanitizer),
		Icons:    handlers.NewIconHandler(a.Registry, resolver),
		Autosave: handlers.NewAutosaveHandler(autosaveManager),
		Search:   handlers.NewSearchHandler(searchService),
		Uploads:  handlers.NewUploadHandler(uploadService),
		Contact:  handlers.NewContactHandler(contactService),
		Blogs:    handlers.NewBlogHandler(blogService),
	}

	a.Router = mux.NewRouter()
	routes.InitRoutes(a.Router, h, authService)
	return a, nil
}
