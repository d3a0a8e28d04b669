package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pfa-screening-api/pkg/helpers"
	"github.com/oksasatya/pfa-screening-api/pkg/response"
)

// serverError logs err with the request id and writes a 500 with a generic message.
func serverError(c *gin.Context, logger *logrus.Logger, err error, message string) {
	helpers.LogError(logger, message, err, logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
	})
	response.Error[any](c, http.StatusInternalServerError, message, nil)
}
