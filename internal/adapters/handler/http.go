package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"
	"github.com/dmcooller/Real-ESRGAN/internal/core/port"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// API exposes the upscaling pipeline over HTTP.
type API struct {
	upscaler port.UpscaleService
}

func NewAPI(upscaler port.UpscaleService) *API {
	return &API{upscaler: upscaler}
}

func (a *API) Register(r gin.IRouter) {
	r.POST("/api/upscale", a.Upscale)
	r.GET("/api/models", a.Models)
}

func (a *API) Models(c *gin.Context) {
	names := domain.ModelNames()

	models := make([]string, len(names))
	for i, name := range names {
		models[i] = string(name)
	}

	c.JSON(http.StatusOK, gin.H{"models": models})
}

func (a *API) Upscale(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	image, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := parseUpscaleForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Info().Str("model", string(request.Model)).Int("bytes", len(image)).Msg("handling upscale request")

	result, err := a.upscaler.Upscale(c.Request.Context(), image, request)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Extension", result.Extension)
	c.Data(http.StatusOK, contentTypeFor(result.Extension), result.Data)
}

func parseUpscaleForm(c *gin.Context) (domain.UpscaleRequest, error) {
	request := domain.UpscaleRequest{
		Model:  domain.ModelName(c.PostForm("model")),
		Device: domain.DevicePreference(c.DefaultPostForm("device", "auto")),
		Ext:    c.DefaultPostForm("ext", "auto"),
	}

	var err error

	if v := c.PostForm("denoise_strength"); v != "" {
		strength, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return request, errors.New("invalid denoise_strength")
		}
		request.DenoiseStrength = &strength
	}

	if request.Tile, err = formInt(c, "tile", 0); err != nil {
		return request, err
	}
	if request.TilePad, err = formInt(c, "tile_pad", 10); err != nil {
		return request, err
	}
	if request.PrePad, err = formInt(c, "pre_pad", 0); err != nil {
		return request, err
	}

	if v := c.PostForm("fp32"); v != "" {
		if request.FP32, err = strconv.ParseBool(v); err != nil {
			return request, errors.New("invalid fp32")
		}
	}

	if v := c.PostForm("face_enhance"); v != "" {
		if request.FaceEnhance, err = strconv.ParseBool(v); err != nil {
			return request, errors.New("invalid face_enhance")
		}
	}

	if v := c.PostForm("gpu_id"); v != "" {
		id, perr := strconv.Atoi(v)
		if perr != nil {
			return request, errors.New("invalid gpu_id")
		}
		request.GPUID = &id
	}

	if v := c.DefaultPostForm("outscale", "4"); v != "" {
		if request.Outscale, err = strconv.ParseFloat(v, 64); err != nil {
			return request, errors.New("invalid outscale")
		}
	}

	return request, nil
}

func formInt(c *gin.Context, key string, fallback int) (int, error) {
	v := c.PostForm(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}

	return n, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidModel),
		errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrDeviceUnavailable),
		errors.Is(err, domain.ErrDecodingFailed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func contentTypeFor(extension string) string {
	switch extension {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
