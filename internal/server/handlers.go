package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emrekir/vidprobe/internal/core/engine"
	"github.com/emrekir/vidprobe/internal/core/media"
	"github.com/emrekir/vidprobe/internal/core/platform"
	"github.com/emrekir/vidprobe/internal/core/version"
)

type fetchRequest struct {
	URL string `json:"url"`
}

type fetchResponse struct {
	Success bool `json:"success"`
	media.VideoInfo
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "vidprobe",
		"version":   version.Version,
		"platforms": platform.List(),
		"endpoints": gin.H{
			"fetch":     "/api/fetch",
			"health":    "/api/health",
			"platforms": "/api/platforms",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handlePlatforms(c *gin.Context) {
	platforms := platform.List()
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}
	c.JSON(http.StatusOK, gin.H{
		"platforms": names,
	})
}

// handleFetch serves both GET (?url=) and POST ({"url": ...}) requests.
func (s *Server) handleFetch(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" && c.Request.Method == http.MethodPost {
		var req fetchRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			rawURL = req.URL
		}
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		s.fail(c, platform.ErrInvalidURL)
		return
	}

	info, err := s.fetch(c.Request.Context(), c.ClientIP(), rawURL)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, fetchResponse{Success: true, VideoInfo: *info})
}

// fetch runs the whole pipeline for one URL: validate, classify,
// rate-limit, probe, select, normalize, size check.
func (s *Server) fetch(ctx context.Context, identity, rawURL string) (*media.VideoInfo, error) {
	u, err := platform.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	p := platform.Classify(u)
	if p == platform.Unknown {
		return nil, errUnsupportedPlatform
	}

	if !s.limiter.Allow(ctx, identity) {
		return nil, errRateLimited
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.pool.Probe(ctx, u.String(), engine.ProfileFor(p))
	if err != nil {
		return nil, err
	}

	selected, err := media.SelectStream(result.Streams, p)
	if err != nil {
		return nil, err
	}

	info := media.Normalize(result.Meta, selected, result.Streams, p)

	if max := s.cfg.Limits.MaxDownloadSizeMB; max > 0 && info.FilesizeMB != nil && *info.FilesizeMB > float64(max) {
		return nil, &tooLargeError{sizeMB: *info.FilesizeMB, maxMB: max}
	}

	return &info, nil
}

// fail renders the error envelope for any pipeline failure. Engine
// details are logged server-side in full; the caller only sees the
// sanitized detail the translator allows through.
func (s *Server) fail(c *gin.Context, err error) {
	status, kind, message, detail := s.translator.translate(err)
	requestID, _ := c.Get("request_id")

	var engErr *engine.Error
	switch {
	case errors.As(err, &engErr):
		// Error() prints only the kind, so the raw stderr has to be
		// pulled out explicitly or it is lost.
		log.Printf("extraction failed [%v]: kind=%s detail=%q", requestID, engErr.Kind, engErr.Detail)
	case status >= http.StatusInternalServerError:
		log.Printf("fetch failed [%v]: %v", requestID, err)
	}

	c.JSON(status, envelope(kind, message, detail))
}
