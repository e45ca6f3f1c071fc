package router

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/auth"
	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/middleware"
	"school-attendance/backend/internal/pkg/clock"
	"school-attendance/backend/internal/pkg/repository/postgresql"
	"school-attendance/backend/internal/repository/postgres/attendance"
	"school-attendance/backend/internal/repository/postgres/schoolClass"
	"school-attendance/backend/internal/repository/postgres/user"
	"school-attendance/backend/internal/repository/redis/session"
	attendance_service "school-attendance/backend/internal/service/attendance"
	"school-attendance/backend/internal/service/dashboard"
	"school-attendance/backend/internal/service/excel"

	attendance_controller "school-attendance/backend/internal/controller/http/v1/attendance"
	auth_controller "school-attendance/backend/internal/controller/http/v1/auth"
	health_controller "school-attendance/backend/internal/controller/http/v1/health"
	schoolClass_controller "school-attendance/backend/internal/controller/http/v1/schoolClass"
	user_controller "school-attendance/backend/internal/controller/http/v1/user"
)

var (
	roleStudent = string(entity.RoleStudent)
	roleTeacher = string(entity.RoleTeacher)
	roleAdmin   = string(entity.RoleAdmin)
)

type Router struct {
	*web.App
	postgresDB     *postgresql.Database
	redisDB        *redis.Client
	auth           *auth.Auth
	clock          clock.Clock
	log            *zap.Logger
	allowedOrigins []string
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	auth *auth.Auth,
	clock clock.Clock,
	log *zap.Logger,
	allowedOrigins []string,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		auth,
		clock,
		log,
		allowedOrigins,
	}
}

// Init registers every route on the app.
func (r Router) Init() {
	r.HandleMethodNotAllowed = true
	r.Use(middleware.CORS(r.allowedOrigins))

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB)
	schoolClassPostgres := schoolClass.NewRepository(r.postgresDB)
	attendancePostgres := attendance.NewRepository(r.postgresDB)

	// - redis
	sessionRedis := session.NewRepository(r.redisDB)

	// service
	rules := attendance_service.NewService(attendancePostgres, userPostgres, r.clock, r.log)
	views := dashboard.NewService(attendancePostgres, userPostgres, r.clock, r.log)
	importer := excel.NewImporter(userPostgres, r.log)

	// controller
	authController := auth_controller.NewController(userPostgres, r.auth, sessionRedis)
	userController := user_controller.NewController(userPostgres, attendancePostgres, importer)
	schoolClassController := schoolClass_controller.NewController(schoolClassPostgres)
	attendanceController := attendance_controller.NewController(rules, views)
	healthController := health_controller.NewController()

	r.Get("/health-check", healthController.Check)

	// #auth
	r.Post("/api/v1/sign-in", authController.SignIn)
	r.Post("/api/v1/refresh-token", authController.RefreshToken)
	r.Post("/api/v1/sign-out", authController.SignOut, middleware.Authenticate(r.auth))
	r.Get("/api/v1/me", authController.Me, middleware.Authenticate(r.auth))

	// #user
	r.Get("/api/v1/user/list", userController.GetUserList, middleware.Authenticate(r.auth, roleAdmin))
	r.Get("/api/v1/user/classes", userController.GetClasses, middleware.Authenticate(r.auth, roleAdmin, roleTeacher))
	r.Get("/api/v1/user/:id", userController.GetUserDetailById, middleware.Authenticate(r.auth, roleAdmin))
	r.Get("/api/v1/user/:id/qrcode", userController.GetQrCode, middleware.Authenticate(r.auth, roleAdmin))
	r.Post("/api/v1/user/create", userController.CreateUser, middleware.Authenticate(r.auth, roleAdmin))
	r.Post("/api/v1/user/import", userController.ImportStudents, middleware.Authenticate(r.auth, roleAdmin))
	r.Patch("/api/v1/user/:id", userController.UpdateUserColumns, middleware.Authenticate(r.auth, roleAdmin))
	r.Delete("/api/v1/user/:id", userController.DeleteUser, middleware.Authenticate(r.auth, roleAdmin))

	// #class
	r.Get("/api/v1/class/list", schoolClassController.GetList, middleware.Authenticate(r.auth, roleAdmin, roleTeacher))
	r.Get("/api/v1/class/:id", schoolClassController.GetDetailById, middleware.Authenticate(r.auth, roleAdmin))
	r.Post("/api/v1/class/create", schoolClassController.Create, middleware.Authenticate(r.auth, roleAdmin))
	r.Patch("/api/v1/class/:id", schoolClassController.UpdateColumns, middleware.Authenticate(r.auth, roleAdmin))
	r.Delete("/api/v1/class/:id", schoolClassController.Delete, middleware.Authenticate(r.auth, roleAdmin))

	// #attendance
	r.Post("/api/v1/attendance/check-in", attendanceController.CheckIn, middleware.Authenticate(r.auth, roleStudent))
	r.Put("/api/v1/attendance/check-out", attendanceController.CheckOut, middleware.Authenticate(r.auth, roleStudent))
	r.Post("/api/v1/attendance/mark", attendanceController.Mark, middleware.Authenticate(r.auth, roleTeacher, roleAdmin))
	r.Get("/api/v1/attendance", attendanceController.View, middleware.Authenticate(r.auth))
	r.Get("/api/v1/dashboard", attendanceController.View, middleware.Authenticate(r.auth))
}
