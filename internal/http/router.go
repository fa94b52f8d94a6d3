package http

import (
	"github.com/gin-gonic/gin"

	"github.com/koopstadt/impactcheck/internal/auth"
	"github.com/koopstadt/impactcheck/internal/export"
)

// RouterConfig carries the dependencies of the HTTP layer.
type RouterConfig struct {
	Database        Pinger
	UserResolver    auth.UserResolver
	UserStore       UserStore
	TagStore        TagStore
	ObjectiveStore  ObjectiveStore
	IndicatorStore  IndicatorStore
	TextBlockStore  TextBlockStore
	SubmissionStore SubmissionStore
	Exporter        export.Exporter
	Version         string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := router.Group("/api")
	api.Use(auth.TokenMiddleware(cfg.UserResolver))

	usersController := NewUsersController(cfg.UserStore)
	api.GET("/users/me", usersController.Me)
	api.POST("/admin/users", usersController.CreateUser)

	tagsController := NewTagsController(cfg.TagStore)
	api.GET("/tags", tagsController.GetAllTags)
	api.GET("/tags/:id", tagsController.GetTag)
	api.POST("/tags", tagsController.CreateTag)
	api.PATCH("/tags/:id", tagsController.UpdateTag)
	api.DELETE("/tags/:id", tagsController.DeleteTag)

	objectivesController := NewObjectivesController(cfg.ObjectiveStore)
	api.GET("/objectives", objectivesController.GetAllMainObjectives)
	api.GET("/objectives/:id", objectivesController.GetMainObjective)
	api.POST("/objectives", objectivesController.CreateMainObjective)
	api.PATCH("/objectives/:id", objectivesController.UpdateMainObjective)
	api.DELETE("/objectives/:id", objectivesController.DeleteMainObjective)
	api.GET("/objectives/:id/sub-objectives", objectivesController.GetSubObjectives)
	api.POST("/objectives/:id/sub-objectives", objectivesController.CreateSubObjective)
	api.PATCH("/sub-objectives/:id", objectivesController.UpdateSubObjective)
	api.DELETE("/sub-objectives/:id", objectivesController.DeleteSubObjective)

	indicatorsController := NewIndicatorsController(cfg.IndicatorStore)
	api.GET("/indicators", indicatorsController.GetAllIndicators)
	api.GET("/indicators/:id", indicatorsController.GetIndicator)
	api.POST("/indicators", indicatorsController.CreateIndicator)
	api.PATCH("/indicators/:id", indicatorsController.UpdateIndicator)
	api.DELETE("/indicators/:id", indicatorsController.DeleteIndicator)

	textBlocksController := NewTextBlocksController(cfg.TextBlockStore)
	api.GET("/text-blocks", textBlocksController.GetAllTextBlocks)
	api.GET("/text-blocks/:id", textBlocksController.GetTextBlock)
	api.POST("/text-blocks", textBlocksController.CreateTextBlock)
	api.PATCH("/text-blocks/:id", textBlocksController.UpdateTextBlock)
	api.DELETE("/text-blocks/:id", textBlocksController.DeleteTextBlock)

	submissionsController := NewSubmissionsController(cfg.SubmissionStore, cfg.Exporter)
	api.GET("/submissions/mobility", submissionsController.GetAllMobilitySubmissions)
	api.GET("/submissions/mobility/:id", submissionsController.GetMobilitySubmission)
	api.POST("/submissions/mobility", submissionsController.CreateMobilitySubmission)
	api.PATCH("/submissions/mobility/:id", submissionsController.UpdateMobilitySubmission)
	api.DELETE("/submissions/mobility/:id", submissionsController.DeleteMobilitySubmission)
	api.POST("/submissions/mobility/:id/copy", submissionsController.CopyMobilitySubmission)
	api.GET("/submissions/mobility/:id/export", submissionsController.ExportMobilitySubmission)

	api.GET("/submissions/climate", submissionsController.GetAllClimateSubmissions)
	api.GET("/submissions/climate/:id", submissionsController.GetClimateSubmission)
	api.POST("/submissions/climate", submissionsController.CreateClimateSubmission)
	api.PATCH("/submissions/climate/:id", submissionsController.UpdateClimateSubmission)
	api.DELETE("/submissions/climate/:id", submissionsController.DeleteClimateSubmission)
	api.POST("/submissions/climate/:id/copy", submissionsController.CopyClimateSubmission)
	api.GET("/submissions/climate/:id/export", submissionsController.ExportClimateSubmission)

	return router
}
