package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/steve-ongera/Muranga-University-ERP-System/handlers"
	"github.com/steve-ongera/Muranga-University-ERP-System/middlewares"
)

// Register wires all HTTP routes. Every protected group passes through
// RequireAuth and the policy gate; no handler does its own role check.
func Register(e *echo.Echo, jwtSecret string) {
	auth := handlers.NewAuthHandler(jwtSecret)
	prog := handlers.NewProgrammeHandler()
	std := handlers.NewStudentHandler()
	unit := handlers.NewUnitHandler()
	mark := handlers.NewMarkHandler()
	self := handlers.NewSelfHandler()

	e.GET("/health", handlers.Health)

	// ===== Public auth =====
	e.POST("/auth/login", auth.Login)
	e.POST("/auth/refresh", auth.Refresh)

	authMW := middlewares.RequireAuth(jwtSecret)

	e.POST("/auth/logout", auth.Logout, authMW)
	e.GET("/auth/me", auth.Me, authMW)

	// ===== Programmes =====
	progRead := e.Group("/programmes", authMW, middlewares.Authorize("programmes", middlewares.ActionRead))
	progRead.GET("", prog.List)
	progRead.GET("/:id", prog.Get)

	progWrite := e.Group("/programmes", authMW, middlewares.Authorize("programmes", middlewares.ActionWrite))
	progWrite.POST("", prog.Create)
	progWrite.PUT("/:id", prog.Update)
	progWrite.PATCH("/:id", prog.Update)
	progWrite.DELETE("/:id", prog.Delete)

	// ===== Students (admin only, reads included) =====
	students := e.Group("/students", authMW, middlewares.Authorize("students", middlewares.ActionWrite))
	students.GET("", std.List)
	students.POST("", std.Create)
	students.GET("/:id", std.Get)
	students.PUT("/:id", std.Update)
	students.DELETE("/:id", std.Delete)
	students.GET("/:id/marks", std.Marks)

	// ===== Units =====
	unitRead := e.Group("/units", authMW, middlewares.Authorize("units", middlewares.ActionRead))
	unitRead.GET("", unit.List)
	unitRead.GET("/:id", unit.Get)

	unitWrite := e.Group("/units", authMW, middlewares.Authorize("units", middlewares.ActionWrite))
	unitWrite.POST("", unit.Create)
	unitWrite.PUT("/:id", unit.Update)
	unitWrite.PATCH("/:id", unit.Update)
	unitWrite.DELETE("/:id", unit.Delete)

	// ===== Marks =====
	markRead := e.Group("/marks", authMW, middlewares.Authorize("marks", middlewares.ActionRead))
	markRead.GET("", mark.List)
	markRead.GET("/:id", mark.Get)

	markWrite := e.Group("/marks", authMW, middlewares.Authorize("marks", middlewares.ActionWrite))
	markWrite.POST("", mark.Upload)
	markWrite.DELETE("/:id", mark.Delete)

	// ===== Student self-service =====
	my := e.Group("/my", authMW, middlewares.Authorize("self", middlewares.ActionRead))
	my.GET("/profile", self.Profile)
	my.GET("/marks", self.Marks)
}
