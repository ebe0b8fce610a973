package server

import "github.com/gin-gonic/gin"

// Registrar is a common interface for all HTTP route registrars.
type Registrar interface {
	Register(rg *gin.RouterGroup)
}
