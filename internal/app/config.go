package app

import (
	"strings"
	"time"

	"github.com/youngclement/preziq-canvas-backend/internal/geometry"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
	"github.com/youngclement/preziq-canvas-backend/internal/utils"
)

type Config struct {
	ServiceName string
	Environment string
	Version     string

	// DefaultCanvas is the canvas size used when a render request does not
	// name one. Stored geometry is percent-based so this only affects output
	// resolution.
	DefaultCanvas geometry.Size

	AllowedOrigins []string

	FontManifestPath string
	ImageLoadTimeout time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	serviceName := utils.GetEnv("SERVICE_NAME", "preziq-canvas", log)
	environment := utils.GetEnv("APP_ENV", "development", log)
	version := utils.GetEnv("APP_VERSION", "dev", log)

	canvasWidth := utils.GetEnvAsFloat("DEFAULT_CANVAS_WIDTH", 1280, log)
	canvasHeight := utils.GetEnvAsFloat("DEFAULT_CANVAS_HEIGHT", 720, log)

	rawOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)
	var origins []string
	for _, o := range strings.Split(rawOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	fontManifest := utils.GetEnv("FONT_MANIFEST_PATH", "", log)
	imageTimeoutSeconds := utils.GetEnvAsInt("IMAGE_LOAD_TIMEOUT_SECONDS", 30, log)

	return Config{
		ServiceName:      serviceName,
		Environment:      environment,
		Version:          version,
		DefaultCanvas:    geometry.Size{Width: canvasWidth, Height: canvasHeight},
		AllowedOrigins:   origins,
		FontManifestPath: fontManifest,
		ImageLoadTimeout: time.Duration(imageTimeoutSeconds) * time.Second,
	}
}
