package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/cuetclass/internal/app/controllers"
	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/app/static"
	"github.com/yigit/cuetclass/internal/app/views"
	"github.com/yigit/cuetclass/internal/middleware"
	"github.com/yigit/cuetclass/internal/pkg/metrics"
	"github.com/yigit/cuetclass/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	logger zerolog.Logger,
	appMetrics *metrics.Metrics,
	pages *controllers.Pages,
	homeController *controllers.HomeController,
	dashboardController *controllers.DashboardController,
	departmentController *controllers.DepartmentController,
	courseController *controllers.CourseController,
	classController *controllers.ClassController,
	studentController *controllers.StudentController,
	teacherController *controllers.TeacherController,
	studentAdmin *controllers.UserController,
	teacherAdmin *controllers.UserController,
	crController *controllers.RepresentativeController,
	bulkUploadController *controllers.BulkUploadController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.SetHTMLTemplate(views.Templates())
	router.StaticFS("/static", static.FS())

	router.Use(middleware.RequestLogger(logger))
	router.Use(appMetrics.Middleware())
	router.Use(middleware.ErrorHandler(pages.ErrorPage))
	router.GET("/health", homeController.Health)
	router.GET("/metrics", gin.WrapH(appMetrics.Handler()))

	site := router.Group("")
	site.Use(authMiddleware.Session())
	{
		site.GET("/", homeController.Landing)
		site.GET("/ws", wsHandler.HandleConnection)
	}

	// --- Admin ---
	admin := site.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/dashboard", dashboardController.Index)

		departments := admin.Group("/departments")
		{
			departments.GET("", departmentController.Index)
			departments.POST("", departmentController.Create)
			departments.POST("/:id", departmentController.Update)
			departments.POST("/:id/delete", departmentController.Delete)
		}

		courses := admin.Group("/courses")
		{
			courses.GET("", courseController.Index)
			courses.POST("", courseController.Create)
			courses.POST("/:id", courseController.Update)
			courses.POST("/:id/delete", courseController.Delete)
		}

		classes := admin.Group("/classes")
		{
			classes.GET("", classController.Index)
			classes.POST("", classController.Create)
			classes.POST("/:id", classController.Update)
			classes.POST("/:id/delete", classController.Delete)
		}

		students := admin.Group("/students")
		{
			students.GET("", studentAdmin.Index)
			students.POST("", studentAdmin.Create)
			students.POST("/:id", studentAdmin.Update)
			students.POST("/:id/delete", studentAdmin.Delete)
			students.POST("/:id/cr", crController.Set)
		}

		teachers := admin.Group("/teachers")
		{
			teachers.GET("", teacherAdmin.Index)
			teachers.POST("", teacherAdmin.Create)
			teachers.POST("/:id", teacherAdmin.Update)
			teachers.POST("/:id/delete", teacherAdmin.Delete)
		}

		admin.GET("/promote-crs", crController.Index)
		admin.GET("/bulk-upload", bulkUploadController.Index)
		admin.POST("/bulk-upload", bulkUploadController.Upload)
		admin.GET("/bulk-upload/sample.csv", bulkUploadController.Sample)
	}

	// --- Student ---
	student := site.Group("/student")
	student.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		student.GET("/classes", studentController.Classes)
		student.POST("/classes/:id/enroll", studentController.Enroll)
	}

	// --- Teacher ---
	teacher := site.Group("/teacher")
	teacher.Use(authMiddleware.RoleRequired(models.RoleTeacher))
	{
		teacher.GET("/notices", teacherController.Notices)
		teacher.POST("/notices", teacherController.Post)
		teacher.POST("/notices/clear", teacherController.Clear)

		teacher.GET("/classes/:id/notices", teacherController.Notices)
		teacher.POST("/classes/:id/notices", teacherController.Post)
		teacher.POST("/classes/:id/notices/clear", teacherController.Clear)

		teacher.GET("/classes/:id/attendance", teacherController.Attendance)
		teacher.POST("/classes/:id/attendance", teacherController.SaveAttendance)
	}

	router.NoRoute(authMiddleware.Session(), pages.NotFound)
}
