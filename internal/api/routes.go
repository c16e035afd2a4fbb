package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo_bank/internal/api/handlers"
	"todo_bank/internal/middleware"
	"todo_bank/internal/service"
)

// NewRouter 建立 gin 引擎並掛上日誌、恢復中間件與所有路由
func NewRouter(services *service.Services, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(log), middleware.Recovery(log))
	SetupRoutes(r, services)
	return r
}

func SetupRoutes(r *gin.Engine, services *service.Services) {
	registerValidators()

	// 初始化 handlers
	accountHandler := handlers.NewAccountHandler(services.Account)
	userHandler := handlers.NewUserHandler(services.User)
	todoHandler := handlers.NewTodoHandler(services.Todo)
	eventsHandler := handlers.NewEventsHandler(services.Events)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	// 公開路由
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
				"time":   time.Now().UTC(),
			})
		})

		api.POST("/accounts", accountHandler.CreateAccount)

		api.POST("/users", userHandler.CreateUser)
		api.POST("/users/login", userHandler.Login)
		api.GET("/users", userHandler.ListUsers)
		api.GET("/users/:id", userHandler.GetUser)
	}

	// 以 cpf 標頭識別帳戶的路由
	ledger := api.Group("")
	ledger.Use(middleware.AccountMiddleware(services.Account))
	{
		ledger.GET("/accounts", accountHandler.GetAccount)
		ledger.PUT("/accounts", accountHandler.UpdateAccount)
		ledger.DELETE("/accounts", accountHandler.DeleteAccount)
		ledger.GET("/accounts/events", eventsHandler.AccountEvents)

		ledger.GET("/statements", accountHandler.Statement)
		ledger.GET("/statements/date", accountHandler.StatementByDate)
		ledger.GET("/statements/data", accountHandler.StatementByDate)

		ledger.POST("/deposits", accountHandler.Deposit)
		ledger.POST("/withdraws", accountHandler.Withdraw)
		ledger.GET("/balances", accountHandler.Balance)
	}

	// 需要用戶 token 的路由
	todos := api.Group("/todos")
	todos.Use(middleware.UserMiddleware(services.User))
	{
		todos.POST("", todoHandler.CreateTodo)
		todos.GET("", todoHandler.ListTodos)
		todos.GET("/events", eventsHandler.TodoEvents)
		todos.GET("/:id", todoHandler.GetTodo)
		todos.PUT("/:id", todoHandler.UpdateTodo)
		todos.PATCH("/:id/done", todoHandler.CompleteTodo)
		todos.DELETE("/:id", todoHandler.DeleteTodo)
	}
}
