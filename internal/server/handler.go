package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Prathmesh2931/vision-processing-microservice/internal/utils"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/types"
)

// handleDetect accepts a multipart upload in the "image" field and
// returns the detection payload. Upload validation failures are 400s;
// anything that breaks during processing is a 500 with the error text.
func (s *Server) handleDetect(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "No image uploaded"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "No image selected"})
		return
	}
	if max := s.cfg.MaxUploadBytes(); fileHeader.Size > max {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: fmt.Sprintf("Image of %s exceeds the %s upload limit",
				utils.FormatFileSize(fileHeader.Size), utils.FormatFileSize(max)),
		})
		return
	}
	if !utils.IsImageFile(fileHeader.Filename) {
		// The decoder decides; the odd extension is just worth a line.
		s.log.Warn("upload with non-image extension",
			zap.String("filename", fileHeader.Filename),
			zap.String("size", utils.FormatFileSize(fileHeader.Size)))
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := s.svc.Detect(c.Request.Context(), data)
	if err != nil {
		s.log.Error("detection request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	modelStatus := "mock"
	if s.sel.Real {
		modelStatus = "loaded"
	}
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:      "healthy",
		Service:     serviceName,
		Version:     serviceVersion,
		RealAI:      s.sel.Real,
		Engine:      s.sel.Engine,
		ModelStatus: modelStatus,
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, types.StatusResponse{
		Microservice: serviceName,
		AIEngine:     s.sel.Engine,
		Status:       "running",
		Endpoints:    []string{"/", "/detect", "/health", "/api/status", "/metrics"},
	})
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}
