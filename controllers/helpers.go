package controllers

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
)

// matches the 5 MiB cap enforced on uploaded media
const maxUploadBytes = 5 << 20

// readFormFile reads one multipart upload into memory and returns its bytes
// and declared content type.
func readFormFile(c *gin.Context, field string) ([]byte, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	if header.Size > maxUploadBytes {
		return nil, "", fmt.Errorf("file exceeds %d bytes", maxUploadBytes)
	}

	f, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, header.Header.Get("Content-Type"), nil
}

func userIDFromCtx(c *gin.Context) (string, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
