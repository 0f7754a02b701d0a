package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"smokey-backend/internal/services"
)

// AdminUploadMedia forwards a product image or video to the media CDN and
// returns the hosted URL
func AdminUploadMedia(c *gin.Context) {
	mediaService, exists := c.Get("mediaService")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Media service not available",
		})
		return
	}
	media := mediaService.(*services.MediaService)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "No file provided",
		})
		return
	}

	if err := media.ValidateFile(file.Header.Get("Content-Type"), file.Size); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Failed to open uploaded file",
		})
		return
	}
	defer f.Close()

	// Large videos take a while; log progress every megabyte so a
	// stalled upload is visible in the server logs
	var lastLogged int64
	result, err := media.Upload(file.Filename, f, func(sent int64) {
		if sent-lastLogged >= 1<<20 {
			lastLogged = sent
			log.Printf("Uploading %s: %d bytes sent", file.Filename, sent)
		}
	})
	if err != nil {
		log.Printf("Media upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "Failed to upload file",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
