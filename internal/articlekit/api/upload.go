package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/nfnt/resize"

	"github.com/md7o/articlekit/internal/articlekit/apierrors"
	"github.com/md7o/articlekit/internal/articlekit/dto"
)

const uploadMaxSize = apierrors.UploadMaxSizeMB << 20

// UploadImage загружает изображение на бэкенд и возвращает его адрес.
// Принимаются только файлы image/* размером до 5 МБ. Тип определяется
// по содержимому, не по расширению.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, uploadMaxSize+1))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", apierrors.ErrUploadEmptyFile
	}
	if len(data) > uploadMaxSize {
		return "", apierrors.ErrUploadTooLarge.WithFormattedMessage(apierrors.UploadMaxSizeMB)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", apierrors.ErrUploadNotImage
	}

	if filename == "" {
		ext, _ := strings.CutPrefix(contentType, "image/")
		filename = uuid.Must(uuid.NewV4()).String() + "." + ext
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/articles/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("Upload image", "filename", filename, "err", err)
		return "", apierrors.ErrUploadFailed
	}
	defer resp.Body.Close()

	slog.Debug("Upload image",
		"filename", filename,
		"size", len(data),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= 400 {
		return "", decodeError(resp)
	}

	var uploaded dto.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", err
	}

	fileURL := uploaded.FileURL()
	if fileURL == "" {
		return "", apierrors.ErrUploadNoURL
	}
	return fileURL, nil
}

// ImageURL строит абсолютный адрес загруженной картинки по имени файла.
// Бэкенд отдает загруженные изображения из /images.
func (c *Client) ImageURL(filename string) string {
	return c.baseURL + "/images/" + path.Base(filename)
}

// ImageThumbnail сжимает изображение до вписанного в 512x512 JPEG для
// карточек списка. GIF возвращается как есть, чтобы не терять анимацию.
func ImageThumbnail(r io.Reader, contentType string) (io.Reader, int, string, error) {
	var err error
	dataType := "image/jpeg"

	buf := new(bytes.Buffer)
	switch contentType {
	case "image/gif":
		io.Copy(buf, r)
		dataType = "image/gif"
	default:
		var img image.Image
		img, _, err = image.Decode(r)
		if err != nil {
			return nil, 0, "", err
		}
		thmb := resize.Thumbnail(512, 512, img, resize.Lanczos3)
		err = jpeg.Encode(buf, thmb, &jpeg.Options{Quality: 80})
	}
	return buf, buf.Len(), dataType, err
}
