package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campuslink/alumni-hub-api/internal/middleware"
	"github.com/campuslink/alumni-hub-api/internal/models"
	"github.com/campuslink/alumni-hub-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth          *AuthHandler
	Events        *EventHandler
	Registrations *RegistrationHandler
	Exports       *ExportHandler
	Profiles      *ProfileHandler
	Forum         *ForumHandler
	Messages      *MessageHandler
	Jobs          *JobBoardHandler
	Mentorship    *MentorshipHandler
	Announcements *AnnouncementHandler
	Notifications *NotificationHandler
	Admin         *AdminHandler
	Metrics       *MetricsHandler
}

// Register mounts all routes under the given prefix. The adminAudit
// middleware, when non-nil, records an audit trail for admin panel requests.
func (h *Handlers) Register(r *gin.Engine, prefix string, authSvc *service.AuthService, adminAudit gin.HandlerFunc) {
	authed := middleware.JWT(authSvc)
	optional := middleware.OptionalJWT(authSvc)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := r.Group(prefix)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", authed, h.Auth.Logout)
		auth.PUT("/password", authed, h.Auth.ChangePassword)
		auth.GET("/me", authed, h.Auth.Me)
	}

	events := api.Group("/events")
	{
		events.GET("", optional, h.Events.List)
		events.GET("/all", optional, h.Events.ListAll)
		events.GET("/overview", authed, adminOnly, h.Events.Overview)
		events.GET("/live", authed, adminOnly, h.Events.LiveStatus)
		events.GET("/my-registrations", authed, h.Events.MyRegistrations)
		events.POST("", authed, adminOnly, h.Events.Create)
		events.POST("/bulk-delete", authed, adminOnly, h.Events.BulkDelete)
		events.GET("/:id", optional, h.Events.Get)
		events.PUT("/:id", authed, adminOnly, h.Events.Update)
		events.DELETE("/:id", authed, adminOnly, h.Events.Delete)
		events.POST("/:id/duplicate", authed, adminOnly, h.Events.Duplicate)
		events.POST("/:id/end", authed, adminOnly, h.Events.End)
		events.POST("/:id/register", authed, h.Events.Register)
		events.GET("/:id/registrations", authed, adminOnly, h.Registrations.ListByEvent)
		events.POST("/:id/certificate", authed, h.Exports.Certificate)
	}

	registrations := api.Group("/registrations", authed, adminOnly)
	{
		registrations.PUT("/:id", h.Registrations.Edit)
		registrations.PUT("/:id/status", h.Registrations.UpdateStatus)
		registrations.DELETE("/:id", h.Registrations.Remove)
		registrations.POST("/bulk-approve", h.Registrations.BulkApprove)
		registrations.POST("/bulk-remove", h.Registrations.BulkRemove)
	}

	exports := api.Group("/exports")
	{
		exports.POST("/events", authed, adminOnly, h.Exports.ExportEvents)
		exports.POST("/events/:id/attendees", authed, adminOnly, h.Exports.ExportAttendees)
		// Download is authorised by the signed token itself.
		exports.GET("/download/:token", h.Exports.Download)
	}

	profiles := api.Group("/profiles", authed)
	{
		profiles.GET("/me", h.Profiles.Me)
		profiles.PUT("/me", h.Profiles.Save)
		profiles.POST("/me/files", h.Profiles.Upload)
		profiles.POST("/me/linkedin-sync", h.Profiles.SyncLinkedin)
	}

	api.GET("/directory", authed, h.Profiles.Directory)
	api.GET("/directory/filters", authed, h.Profiles.DirectoryFilters)

	forum := api.Group("/forum", authed)
	{
		forum.GET("/posts", h.Forum.ListPosts)
		forum.POST("/posts", h.Forum.CreatePost)
		forum.GET("/posts/:id", h.Forum.GetThread)
		forum.DELETE("/posts/:id", h.Forum.DeletePost)
		forum.POST("/posts/:id/comments", h.Forum.AddComment)
	}

	messages := api.Group("/messages", authed)
	{
		messages.GET("", h.Messages.Mailbox)
		messages.POST("", h.Messages.Send)
		messages.GET("/:id", h.Messages.Read)
		messages.DELETE("/:id", h.Messages.Delete)
	}

	jobs := api.Group("/jobs", authed)
	{
		jobs.GET("", h.Jobs.List)
		jobs.POST("", h.Jobs.Create)
		jobs.DELETE("/:id", h.Jobs.Delete)
	}

	mentorship := api.Group("/mentorship", authed)
	{
		mentorship.GET("/mentors", h.Profiles.Mentors)
		mentorship.GET("/requests", h.Mentorship.MyRequests)
		mentorship.POST("/requests", h.Mentorship.Request)
		mentorship.PUT("/requests/:id/respond", h.Mentorship.Respond)
	}

	api.GET("/announcements", h.Announcements.ListActive)
	api.GET("/notifications", authed, h.Notifications.Feed)

	admin := api.Group("/admin", authed, adminOnly)
	if adminAudit != nil {
		admin.Use(adminAudit)
	}
	{
		admin.GET("/dashboard", h.Admin.Dashboard)
		admin.GET("/alumni", h.Profiles.ListForAdmin)
		admin.POST("/alumni", h.Admin.AddAlumnus)
		admin.GET("/alumni/pending", h.Admin.PendingVerification)
		admin.PUT("/alumni/:id/verify", h.Admin.VerifyAlumnus)
		admin.DELETE("/alumni/:id", h.Admin.RemoveAlumnus)
		admin.GET("/announcements", h.Announcements.ListAll)
		admin.POST("/announcements", h.Announcements.Create)
		admin.PUT("/announcements/:id/active", h.Announcements.SetActive)
		admin.DELETE("/announcements/:id", h.Announcements.Delete)
		admin.POST("/notifications/reminders", h.Notifications.DispatchReminders)
		admin.POST("/notifications/remind", h.Notifications.Remind)
		admin.POST("/events/:id/broadcast", h.Notifications.BroadcastEvent)
		admin.GET("/metrics", h.Metrics.Snapshot)
	}
}
