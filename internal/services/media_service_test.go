package services

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMediaService(uploadURL string) *MediaService {
	return NewMediaService(uploadURL, "smokeys-unsigned", 10<<20, []string{"image/jpeg", "image/png", "video/mp4"})
}

func TestMediaValidateFile(t *testing.T) {
	media := newTestMediaService("https://example.invalid/upload")

	assert.NoError(t, media.ValidateFile("image/jpeg", 1024))

	err := media.ValidateFile("image/jpeg", 11<<20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file too large")

	err = media.ValidateFile("application/zip", 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestMediaUpload(t *testing.T) {
	t.Run("FormCarriesPresetAndFile", func(t *testing.T) {
		var preset, filename, content string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1 << 20))
			preset = r.FormValue("upload_preset")

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			filename = header.Filename
			buf, err := io.ReadAll(file)
			require.NoError(t, err)
			content = string(buf)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"secure_url":"https://cdn.example.com/brisket.jpg","public_id":"brisket","format":"jpg","bytes":11}`))
		}))
		defer server.Close()

		media := newTestMediaService(server.URL)
		result, err := media.Upload("brisket.jpg", strings.NewReader("image bytes"), nil)
		require.NoError(t, err)

		assert.Equal(t, "smokeys-unsigned", preset)
		assert.Equal(t, "brisket.jpg", filename)
		assert.Equal(t, "image bytes", content)
		assert.Equal(t, "https://cdn.example.com/brisket.jpg", result.URL)
		assert.Equal(t, "brisket", result.PublicID)
		assert.Equal(t, "jpg", result.Format)
		assert.Equal(t, int64(11), result.Bytes)
	})

	t.Run("ProgressReportsCumulativeBytes", func(t *testing.T) {
		var received int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received = r.ContentLength
			w.Write([]byte(`{"secure_url":"https://cdn.example.com/ribs.jpg"}`))
		}))
		defer server.Close()

		media := newTestMediaService(server.URL)

		var reports []int64
		_, err := media.Upload("ribs.jpg", strings.NewReader(strings.Repeat("x", 4096)), func(sent int64) {
			reports = append(reports, sent)
		})
		require.NoError(t, err)

		require.NotEmpty(t, reports)
		for i := 1; i < len(reports); i++ {
			assert.Greater(t, reports[i], reports[i-1])
		}
		// The final report covers the whole request body
		assert.Equal(t, received, reports[len(reports)-1])
	})

	t.Run("PlainURLFallback", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"url":"http://cdn.example.com/plain.jpg"}`))
		}))
		defer server.Close()

		result, err := newTestMediaService(server.URL).Upload("plain.jpg", strings.NewReader("x"), nil)
		require.NoError(t, err)
		assert.Equal(t, "http://cdn.example.com/plain.jpg", result.URL)
	})

	t.Run("ServerErrorSurfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "preset not found", http.StatusBadRequest)
		}))
		defer server.Close()

		_, err := newTestMediaService(server.URL).Upload("x.jpg", strings.NewReader("x"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upload failed with status 400")
	})

	t.Run("ResponseWithoutURLRejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := newTestMediaService(server.URL).Upload("x.jpg", strings.NewReader("x"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no file URL")
	})

	t.Run("Unconfigured", func(t *testing.T) {
		media := NewMediaService("", "", 10<<20, nil)
		_, err := media.Upload("x.jpg", strings.NewReader("x"), nil)
		require.Error(t, err)
		assert.Equal(t, "media upload is not configured", err.Error())
	})
}
