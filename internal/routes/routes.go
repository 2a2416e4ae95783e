package routes

import (
	"net/http"

	"portfolio/internal/handlers"
	"portfolio/internal/middleware"

	"github.com/gorilla/mux"
)

// Handlers — все HTTP-хендлеры сервиса.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Content  *handlers.ContentHandler
	Stream   *handlers.StreamHandler
	Projects *handlers.ProjectHandler
	Icons    *handlers.IconHandler
	Autosave *handlers.AutosaveHandler
	Search   *handlers.SearchHandler
	Uploads  *handlers.UploadHandler
	Contact  *handlers.ContactHandler
	Blogs    *handlers.BlogHandler
}

func InitRoutes(router *mux.Router, h Handlers, verifier middleware.TokenVerifier) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.Logging)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/admin/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/admin/session", h.Auth.Session).Methods(http.MethodGet)

	api.HandleFunc("/content/{collection}", h.Content.List).Methods(http.MethodGet)
	api.HandleFunc("/content/{collection}/{id}", h.Content.Get).Methods(http.MethodGet)
	api.HandleFunc("/singleton/{collection}", h.Content.Singleton).Methods(http.MethodGet)

	api.HandleFunc("/stream/{collection}", h.Stream.Stream).Methods(http.MethodGet)
	api.HandleFunc("/stream/{collection}/{id}", h.Stream.Stream).Methods(http.MethodGet)

	api.HandleFunc("/projects", h.Projects.List).Methods(http.MethodGet)
	api.HandleFunc("/projects/{key}", h.Projects.Get).Methods(http.MethodGet)

	api.HandleFunc("/icons/resolve", h.Icons.Resolve).Methods(http.MethodGet)
	api.HandleFunc("/icons/categories", h.Icons.Categories).Methods(http.MethodGet)
	api.HandleFunc("/icons/categories/{id}/icons", h.Icons.CategoryIcons).Methods(http.MethodGet)
	api.HandleFunc("/icons/categorized", h.Icons.Categorized).Methods(http.MethodGet)
	api.HandleFunc("/icons/find/{name}", h.Icons.Find).Methods(http.MethodGet)

	api.HandleFunc("/search", h.Search.Search).Methods(http.MethodGet)
	api.HandleFunc("/contact", h.Contact.Submit).Methods(http.MethodPost)

	// --- Администратор ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(func(next http.Handler) http.Handler { return middleware.JWTAuth(verifier, next) })
	admin.Use(middleware.OnlyRole("admin"))

	admin.HandleFunc("/content/{collection}", h.Content.AdminList).Methods(http.MethodGet)
	admin.HandleFunc("/content/{collection}", h.Content.Create).Methods(http.MethodPost)
	admin.HandleFunc("/content/{collection}/{id}", h.Content.AdminGet).Methods(http.MethodGet)
	admin.HandleFunc("/content/{collection}/{id}", h.Content.Upsert).Methods(http.MethodPut)
	admin.HandleFunc("/content/{collection}/{id}", h.Content.Update).Methods(http.MethodPatch)
	admin.HandleFunc("/content/{collection}/{id}", h.Content.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/autosave/{collection}/{id}", h.Autosave.Edit).Methods(http.MethodPatch)
	admin.HandleFunc("/autosave/{collection}/{id}", h.Autosave.Status).Methods(http.MethodGet)
	admin.HandleFunc("/autosave/{collection}/{id}/flush", h.Autosave.Flush).Methods(http.MethodPost)
	admin.HandleFunc("/autosave/{collection}/{id}", h.Autosave.Release).Methods(http.MethodDelete)

	admin.HandleFunc("/projects/{key}", h.Projects.Get).Methods(http.MethodGet)
	admin.HandleFunc("/projects/reorder", h.Projects.Reorder).Methods(http.MethodPost)
	admin.HandleFunc("/projects/{id}/pipeline/reorder", h.Projects.ReorderPipeline).Methods(http.MethodPost)
	admin.HandleFunc("/projects/{id}/visibility", h.Projects.SetVisibility).Methods(http.MethodPut)

	admin.HandleFunc("/blogs", h.Blogs.Create).Methods(http.MethodPost)
	admin.HandleFunc("/blogs/preview", h.Blogs.Preview).Methods(http.MethodPost)
	admin.HandleFunc("/blogs/{id}", h.Blogs.Save).Methods(http.MethodPut)
	admin.HandleFunc("/blogs/{id}/publish", h.Blogs.SetPublish).Methods(http.MethodPatch)

	admin.HandleFunc("/icons/categories", h.Icons.CreateCategory).Methods(http.MethodPost)
	admin.HandleFunc("/icons/categories/{id}", h.Icons.DeleteCategory).Methods(http.MethodDelete)
	admin.HandleFunc("/icons", h.Icons.AddIcon).Methods(http.MethodPost)
	admin.HandleFunc("/icons/{id}", h.Icons.RemoveIcon).Methods(http.MethodDelete)

	admin.HandleFunc("/uploads", h.Uploads.Upload).Methods(http.MethodPost)
	admin.HandleFunc("/uploads", h.Uploads.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/messages", h.Contact.Inbox).Methods(http.MethodGet)
	admin.HandleFunc("/messages/{id}/read", h.Contact.MarkRead).Methods(http.MethodPut)
}
