package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/Nate91117/teamnotes/api/handler"
)

type Handlers struct {
	Auth         *apiHandler.AuthHandler
	Team         *apiHandler.TeamHandler
	Goal         *apiHandler.GoalHandler
	PersonalGoal *apiHandler.PersonalGoalHandler
	Task         *apiHandler.TaskHandler
	Note         *apiHandler.NoteHandler
	Report       *apiHandler.ReportHandler
	Dashboard    *apiHandler.DashboardHandler
	Change       *apiHandler.ChangeHandler
	Health       *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/signup", handlers.Auth.Signup)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))
	r.POST("/api/v1/auth/refresh", authMiddleware(handlers.Auth.Refresh))
	r.PUT("/api/v1/auth/team", authMiddleware(handlers.Auth.SelectTeam))
	r.GET("/api/v1/profile", authMiddleware(handlers.Auth.Profile))

	// Teams
	r.GET("/api/v1/teams", authMiddleware(handlers.Team.List))
	r.POST("/api/v1/teams", authMiddleware(handlers.Team.Create))
	r.GET("/api/v1/team/members", authMiddleware(handlers.Team.Members))
	r.DELETE("/api/v1/team/members/{id}", authMiddleware(handlers.Team.RemoveMember))
	r.GET("/api/v1/team/invitations", authMiddleware(handlers.Team.Invitations))
	r.POST("/api/v1/team/invitations", authMiddleware(handlers.Team.Invite))

	// Goals and categories
	r.GET("/api/v1/goals", authMiddleware(handlers.Goal.List))
	r.POST("/api/v1/goals", authMiddleware(handlers.Goal.Create))
	r.PUT("/api/v1/goals/reorder", authMiddleware(handlers.Goal.Reorder))
	r.GET("/api/v1/goals/{id}", authMiddleware(handlers.Goal.Get))
	r.PUT("/api/v1/goals/{id}", authMiddleware(handlers.Goal.Update))
	r.DELETE("/api/v1/goals/{id}", authMiddleware(handlers.Goal.Delete))
	r.PUT("/api/v1/goals/{id}/members", authMiddleware(handlers.Goal.ReplaceMembers))
	r.GET("/api/v1/categories", authMiddleware(handlers.Goal.ListCategories))
	r.POST("/api/v1/categories", authMiddleware(handlers.Goal.CreateCategory))
	r.PUT("/api/v1/categories/{id}", authMiddleware(handlers.Goal.UpdateCategory))
	r.DELETE("/api/v1/categories/{id}", authMiddleware(handlers.Goal.DeleteCategory))

	// Personal goals
	r.GET("/api/v1/personal-goals", authMiddleware(handlers.PersonalGoal.List))
	r.POST("/api/v1/personal-goals", authMiddleware(handlers.PersonalGoal.Create))
	r.PUT("/api/v1/personal-goals/reorder", authMiddleware(handlers.PersonalGoal.Reorder))
	r.GET("/api/v1/personal-goals/{id}", authMiddleware(handlers.PersonalGoal.Get))
	r.PUT("/api/v1/personal-goals/{id}", authMiddleware(handlers.PersonalGoal.Update))
	r.DELETE("/api/v1/personal-goals/{id}", authMiddleware(handlers.PersonalGoal.Delete))
	r.PUT("/api/v1/personal-goals/{id}/goals", authMiddleware(handlers.PersonalGoal.ReplaceGoalLinks))

	// Tasks
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.List))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.Create))
	r.PUT("/api/v1/tasks/reorder", authMiddleware(handlers.Task.Reorder))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Get))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Update))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Delete))
	r.PUT("/api/v1/tasks/{id}/status", authMiddleware(handlers.Task.SetStatus))
	r.PUT("/api/v1/tasks/{id}/assignees", authMiddleware(handlers.Task.ReplaceAssignees))
	r.PUT("/api/v1/tasks/{id}/personal-goals", authMiddleware(handlers.Task.ReplacePersonalGoalLinks))

	// Notes
	r.GET("/api/v1/notes", authMiddleware(handlers.Note.List))
	r.POST("/api/v1/notes", authMiddleware(handlers.Note.Create))
	r.GET("/api/v1/notes/{id}", authMiddleware(handlers.Note.Get))
	r.PUT("/api/v1/notes/{id}", authMiddleware(handlers.Note.Update))
	r.DELETE("/api/v1/notes/{id}", authMiddleware(handlers.Note.Delete))

	// Reports
	r.GET("/api/v1/reports", authMiddleware(handlers.Report.List))
	r.POST("/api/v1/reports", authMiddleware(handlers.Report.Create))
	r.PUT("/api/v1/reports/{id}", authMiddleware(handlers.Report.Update))
	r.DELETE("/api/v1/reports/{id}", authMiddleware(handlers.Report.Delete))

	// Dashboard
	r.GET("/api/v1/dashboard/goals", authMiddleware(handlers.Dashboard.Board))
	r.GET("/api/v1/dashboard/members", authMiddleware(handlers.Dashboard.Overview))

	// Change feed
	r.GET("/api/v1/changes", authMiddleware(handlers.Change.Poll))

	return r
}
