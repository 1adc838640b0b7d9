// Package handlers exposes the processing pipeline and its configuration
// surface over HTTP.
package handlers

import (
	"github.com/gin-gonic/gin"

	"xmlprocessor/internal/metrics"
	"xmlprocessor/internal/onboarding"
	"xmlprocessor/internal/pipeline"
	"xmlprocessor/internal/store"
	"xmlprocessor/internal/tenant"
)

// API bundles the handler dependencies.
type API struct {
	Clients    *store.ClientStore
	Interfaces *store.InterfaceStore
	Rules      *store.MappingRuleStore
	Files      *store.ProcessedFileStore
	Processor  *pipeline.Processor
	Aggregator *metrics.Aggregator
	Onboarding *onboarding.Service
}

// RegisterRoutes wires all endpoints onto the router, with the client context
// middleware applied to the API group.
func (a *API) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	v1.Use(tenant.Middleware(a.Clients))
	{
		clientRoutes := v1.Group("/clients")
		{
			clientRoutes.POST("", a.CreateClient)
			clientRoutes.GET("", a.ListClients)
			clientRoutes.GET("/:id", a.GetClient)
			clientRoutes.PUT("/:id", a.UpdateClient)
			clientRoutes.DELETE("/:id", a.DeleteClient)
			clientRoutes.POST("/onboard", a.OnboardClient)
			clientRoutes.POST("/clone", a.CloneClient)
		}

		interfaceRoutes := v1.Group("/interfaces")
		{
			interfaceRoutes.POST("", a.CreateInterface)
			interfaceRoutes.GET("", a.ListInterfaces)
			interfaceRoutes.GET("/:id", a.GetInterface)
			interfaceRoutes.PUT("/:id", a.UpdateInterface)
			interfaceRoutes.DELETE("/:id", a.DeleteInterface)
			interfaceRoutes.GET("/:id/mapping-rules", a.ListMappingRules)
			interfaceRoutes.POST("/:id/mapping-rules", a.CreateMappingRule)
		}

		ruleRoutes := v1.Group("/mapping-rules")
		{
			ruleRoutes.GET("/:id", a.GetMappingRule)
			ruleRoutes.PUT("/:id", a.UpdateMappingRule)
			ruleRoutes.DELETE("/:id", a.DeleteMappingRule)
		}

		fileRoutes := v1.Group("/processed-files")
		{
			fileRoutes.GET("", a.ListProcessedFiles)
			fileRoutes.GET("/:id", a.GetProcessedFile)
		}

		v1.POST("/upload", a.UploadFile)
		v1.GET("/metrics/performance", a.GetPerformanceSnapshot)
	}
}
