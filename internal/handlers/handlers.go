// Package handlers exposes the analysis pipeline over HTTP.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/greenlab/leafscan/internal/detector"
	"github.com/greenlab/leafscan/internal/model"
	"github.com/greenlab/leafscan/internal/preprocess"
)

const version = "1.0.0"

// maxUploadBytes caps the multipart form size for uploads.
const maxUploadBytes = 10 << 20

type Handler struct {
	detector   *detector.Detector
	classifier model.Classifier
}

func New(d *detector.Detector, c model.Classifier) *Handler {
	return &Handler{detector: d, classifier: c}
}

// Router builds the gin engine with all routes and CORS configured.
func Router(h *Handler, allowOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{allowOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/detect", h.Detect)
		api.POST("/detect/tensor", h.DetectTensor)
		api.GET("/diseases", h.Diseases)
	}
	return r
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Plant Disease Detector API is running"})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"model_loaded": h.classifier.Ready(),
		"version":      version,
	})
}

// Detect accepts a multipart upload in the "file" field and returns the
// analysis result. Undecodable or degenerate images map to 400.
func (h *Handler) Detect(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided. Use 'file' as the form field name"})
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File must be an image"})
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}
	log.Debug().Str("filename", header.Filename).Int("bytes", len(raw)).Msg("received upload")

	result, err := h.detector.Analyze(raw)
	if err != nil {
		switch {
		case errors.Is(err, detector.ErrDecode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image format. Supported: JPEG, PNG, GIF"})
		case errors.Is(err, preprocess.ErrInvalidImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image could not be processed"})
		default:
			log.Error().Err(err).Msg("analysis error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing image"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

type tensorRequest struct {
	Image []float32 `json:"image" binding:"required"`
}

// DetectTensor accepts an already-normalized flat value array, for
// callers that preprocess on their side.
func (h *Handler) DetectTensor(c *gin.Context) {
	var req tensorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	expected := preprocess.TargetHeight * preprocess.TargetWidth * preprocess.Channels
	if len(req.Image) != expected {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Expected %d values, got %d", expected, len(req.Image)),
		})
		return
	}

	c.JSON(http.StatusOK, h.detector.AnalyzeTensor(req.Image))
}

func (h *Handler) Diseases(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"diseases": h.detector.Labels()})
}
