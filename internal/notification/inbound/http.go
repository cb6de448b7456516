package inbound

import (
	"github.com/serikimmo/serik/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Template management (need authenticated & authorization)
	r.GET("/api/v1/notifications/templates", end.TemplateList)
	r.PUT("/api/v1/notifications/templates", end.TemplateUpsert)
}
