package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"submgmt/cmd/fx/billing_fx"
	"submgmt/cmd/fx/config_fx"
	"submgmt/cmd/fx/controllers_fx"
	"submgmt/cmd/fx/db_fx"
	"submgmt/cmd/fx/events_fx"
	"submgmt/cmd/fx/gateway_fx"
	"submgmt/cmd/fx/mail_fx"
	"submgmt/cmd/fx/plan_fx"
	"submgmt/cmd/fx/sweeper_fx"
	"submgmt/internal/api/controllers"
	"submgmt/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		db_fx.Module,
		config_fx.Module,
		gateway_fx.Module,
		mail_fx.Module,
		events_fx.Module,
		plan_fx.Module,
		billing_fx.Module,
		sweeper_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	planController *controllers.PlanController,
	subscriptionController *controllers.SubscriptionController,
	webhookController *controllers.WebhookController,
	sweeperController *controllers.SweeperController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, planController, subscriptionController, webhookController, sweeperController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	planController *controllers.PlanController,
	subscriptionController *controllers.SubscriptionController,
	webhookController *controllers.WebhookController,
	sweeperController *controllers.SweeperController) {

	v1 := r.Group("/api/v1")

	plansGroup := v1.Group("/plans")
	plansGroup.GET("", planController.ListPlans)
	plansGroup.GET("/:id", planController.GetPlan)

	plansAdminGroup := v1.Group("/plans")
	plansAdminGroup.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	plansAdminGroup.POST("", planController.CreatePlan)
	plansAdminGroup.PUT("/:id", planController.UpdatePlan)
	plansAdminGroup.DELETE("/:id", planController.DeletePlan)

	subsGroup := v1.Group("/subscriptions")
	subsGroup.Use(middleware.JWTAuthMiddleware())
	subsGroup.POST("/purchase", subscriptionController.Purchase)
	subsGroup.POST("/complete-payment", subscriptionController.CompletePayment)
	subsGroup.GET("/me", subscriptionController.Me)
	subsGroup.GET("/history", subscriptionController.History)

	adminGroup := v1.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	adminGroup.GET("/stats", subscriptionController.Stats)

	webhooksGroup := v1.Group("/webhooks")
	webhooksGroup.POST("/razorpay", webhookController.HandleRazorpay)

	cronGroup := v1.Group("/cron")
	cronGroup.POST("/expire-subscriptions", sweeperController.RunExpiry)
	cronGroup.POST("/send-renewal-reminders", sweeperController.RunReminders)
}
