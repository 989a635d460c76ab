package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups everything the router serves
type Handlers struct {
	Matters  *MatterHandler
	Research *ResearchHandler
	Sessions *SessionHandler
	Files    *FileHandler
}

// NewRouter registers the API routes
func NewRouter(h Handlers, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logger), gin.Recovery())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		api.GET("/dashboard", h.Matters.Dashboard)
		api.GET("/analytics", h.Matters.Analytics)

		// Matter endpoints
		api.POST("/matters", h.Matters.CreateMatter)
		api.GET("/matters", h.Matters.ListMatters)
		api.GET("/matters/:id", h.Matters.GetMatter)
		api.PUT("/matters/:id", h.Matters.UpdateMatter)
		api.GET("/matters/:id/detail", h.Matters.GetMatterDetail)
		api.GET("/matters/:id/files", h.Files.ListMatterFiles)

		// Authority endpoints
		api.GET("/authorities", h.Matters.ListAuthorities)
		api.POST("/authorities", h.Matters.CreateAuthority)

		// Research and analysis
		api.POST("/research", h.Research.Research)
		api.POST("/research/authorities", h.Research.SaveAuthority)
		api.POST("/judgments/analyze", h.Research.AnalyzeJudgment)

		// Draft sessions
		api.POST("/sessions", h.Sessions.CreateSession)
		api.GET("/sessions/:id", h.Sessions.GetSession)
		api.DELETE("/sessions/:id", h.Sessions.CloseSession)
		api.POST("/sessions/:id/argument/matter", h.Sessions.SelectArgumentMatter)
		api.PUT("/sessions/:id/argument", h.Sessions.UpdateArgument)
		api.POST("/sessions/:id/argument/generate", h.Sessions.GenerateArgument)
		api.POST("/sessions/:id/argument/structure", h.Sessions.StructureArgument)
		api.POST("/sessions/:id/argument/correct-facts", h.Sessions.CorrectFacts)
		api.POST("/sessions/:id/argument/coach", h.Sessions.CoachArgument)
		api.POST("/sessions/:id/argument/save", h.Sessions.SaveArgument)
		api.PUT("/sessions/:id/document", h.Sessions.UpdateDocument)
		api.POST("/sessions/:id/document/generate", h.Sessions.GenerateDocument)
		api.POST("/sessions/:id/document/save", h.Sessions.SaveDocument)

		// File endpoints
		api.POST("/files/upload", h.Files.UploadFile)
		api.GET("/files/:id", h.Files.GetFile)
		api.DELETE("/files/:id", h.Files.DeleteFile)
		api.POST("/files/:id/extract", h.Files.ExtractFile)
	}

	return r
}
