package v1

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"

	"zlecenia/internal/config"
	"zlecenia/internal/delivery/http/handler"
	"zlecenia/internal/delivery/http/middleware"
	"zlecenia/internal/geo"
	"zlecenia/internal/geocode"
	"zlecenia/internal/infrastructure/cache"
	"zlecenia/internal/pkg/jwt"
	"zlecenia/internal/repository"
	"zlecenia/internal/usecase"
	"zlecenia/internal/ws"
)

// Deps carries the shared infrastructure the v1 surface is wired from.
type Deps struct {
	Config config.Config
	DB     *pgxpool.Pool
	Cache  *cache.Redis
	Hub    *ws.Hub
	Logger *log.Logger
}

// Usecases exposes the wired services the rest of the app (scheduler, ws)
// shares with the HTTP surface.
type Usecases struct {
	Listings      usecase.ListingSearchUsecase
	Bookmarks     usecase.BookmarkUsecase
	Notifications usecase.NotificationUsecase
	JWT           jwt.Service
}

func Register(r fiber.Router, deps Deps) Usecases {
	if r == nil {
		return Usecases{}
	}

	jwtSvc := jwt.NewHMACService(
		deps.Config.JWT.AccessSecret,
		deps.Config.JWT.RefreshSecret,
		deps.Config.JWT.AccessExpiresIn,
		deps.Config.JWT.RefreshExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	listingRepo := repository.NewPostgresListingRepository(deps.DB)
	bookmarkRepo := repository.NewPostgresBookmarkRepository(deps.DB)
	userRepo := repository.NewPostgresUserRepository(deps.DB)
	messageRepo := repository.NewPostgresMessageRepository(deps.DB)
	notificationRepo := repository.NewPostgresNotificationRepository(deps.DB)

	boundsCache := geo.NewBoundsCache(deps.Logger)

	listingUC := usecase.NewListingSearchUsecase(listingRepo, boundsCache, deps.Cache, deps.Logger)
	bookmarkUC := usecase.NewBookmarkUsecase(bookmarkRepo, deps.Cache, listingRepo, deps.Logger)
	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc, bookmarkUC, deps.Logger)
	messageUC := usecase.NewMessageUsecase(messageRepo, listingRepo, deps.Hub, deps.Logger)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, bookmarkRepo, deps.Hub, deps.Logger)
	geocoder := geocode.New(deps.Config.Geocode, deps.Logger)

	handler.NewAuthHandler(authUC).RegisterRoutes(r.Group("/auth"))
	handler.NewGeocodeHandler(geocoder).RegisterRoutes(r.Group("/geocode"))

	// Listings and bookmarks work for guests; auth is optional so logged-in
	// requests still carry their user id.
	listingsGroup := r.Group("/listings", authMw.Optional())
	handler.NewListingsHandler(listingUC).RegisterRoutes(listingsGroup)

	bookmarksGroup := r.Group("/bookmarks", authMw.Optional())
	handler.NewBookmarksHandler(bookmarkUC).RegisterRoutes(bookmarksGroup)

	protected := r.Group("", authMw.Middleware())
	publishUC := usecase.NewListingPublishUsecase(listingRepo, deps.Cache, geocoder, deps.Hub, deps.Logger)
	handler.NewListingPublishHandler(publishUC).RegisterRoutes(protected.Group("/listings"))
	handler.NewMessagesHandler(messageUC).RegisterRoutes(protected.Group("/messages"))
	handler.NewNotificationsHandler(notificationUC).RegisterRoutes(protected.Group("/notifications"))

	return Usecases{
		Listings:      listingUC,
		Bookmarks:     bookmarkUC,
		Notifications: notificationUC,
		JWT:           jwtSvc,
	}
}
