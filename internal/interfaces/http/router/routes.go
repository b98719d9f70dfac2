package router

import (
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/handler"
)

// Handlers bundles the handlers behind the planner API
type Handlers struct {
	Reference *handler.ReferenceHandler
	Plots     *handler.PlotHandler
	Advisor   *handler.AdvisorHandler
	System    *handler.SystemHandler
}

// RegisterPlannerRoutes adds the reference, plot and system route groups to r
func RegisterPlannerRoutes(r *Router, h Handlers) {
	reference := NewDomainGroup("reference", "")
	reference.GET("/vegetables", h.Reference.ListVegetables)
	reference.GET("/vegetables/:id", h.Reference.GetVegetable)
	reference.GET("/rotation/groups", h.Reference.RotationGroups)
	reference.GET("/companions/compatibility", h.Reference.Compatibility)
	reference.GET("/strategies", h.Reference.ListStrategies)

	plots := NewDomainGroup("plots", "/plots")
	plots.POST("", h.Plots.Create)
	plots.GET("", h.Plots.List)
	plots.GET("/:id", h.Plots.GetByID)
	plots.PUT("/:id", h.Plots.Update)
	plots.DELETE("/:id", h.Plots.Delete)
	plots.PUT("/:id/cells/:row/:col", h.Plots.PlantCell)
	plots.DELETE("/:id/cells/:row/:col", h.Plots.ClearCell)
	plots.GET("/:id/placement", h.Advisor.Placement)

	rotation := plots.Group("rotation", "/:id/rotation")
	rotation.GET("/suggestion", h.Advisor.SuggestedRotation)
	rotation.GET("/check", h.Advisor.CheckRotation)
	rotation.GET("/history", h.Advisor.RotationHistory)
	rotation.POST("/history", h.Advisor.RecordHistory)
	rotation.GET("/stats", h.Advisor.RotationStats)

	plots.POST("/:id/seasons/:year/close", h.Advisor.CloseSeason)
	plots.GET("/:id/dominant-group", h.Advisor.DominantGroup)
	plots.POST("/:id/autofill/preview", h.Advisor.PreviewAutoFill)
	plots.POST("/:id/autofill", h.Advisor.AutoFill)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	r.Register(reference).Register(plots).Register(system)
	r.engine.GET("/health", h.System.Health)
	r.engine.GET(r.BasePath()+"/health", h.System.Health)
}
