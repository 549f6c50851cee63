package plan_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"submgmt/internal/api/controllers"
	"submgmt/internal/repositories"
	"submgmt/internal/services"
)

var Module = fx.Provide(
	providePlanRepo, providePlanService, providePlanController,
)

func providePlanRepo(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func providePlanService(planRepo repositories.IPlanRepository) services.PlanService {
	return services.NewPlanService(planRepo)
}

func providePlanController(planService services.PlanService) *controllers.PlanController {
	return controllers.NewPlanController(planService)
}
