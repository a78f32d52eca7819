package iiif

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ServiceError indicates a failure retrieving metadata from the image
// server. Transport errors and non-success statuses both surface as this
// type; callers never see a raw network error.
type ServiceError struct {
	ImageID string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("image service: retrieve metadata for %q: %v", e.ImageID, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// InfoService fetches per-image dimensions and capabilities.
type InfoService interface {
	Info(ctx context.Context, imageID string) (ImageInfo, error)
}

// HTTPInfoService fetches info.json documents from a IIIF image server.
type HTTPInfoService struct {
	// Endpoint is the base URL of the image server, without a trailing
	// slash.
	Endpoint string

	Client *http.Client
	Logger *zap.Logger
}

func (s *HTTPInfoService) client() *http.Client {
	if s.Client == nil {
		return http.DefaultClient
	}
	return s.Client
}

// Info retrieves the image metadata for imageID.
func (s *HTTPInfoService) Info(ctx context.Context, imageID string) (ImageInfo, error) {
	infoURL := strings.TrimRight(s.Endpoint, "/") + "/" + imageID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, nil)
	if err != nil {
		return ImageInfo{}, &ServiceError{ImageID: imageID, Err: err}
	}

	if s.Logger != nil {
		s.Logger.Debug("fetching image info", zap.String("url", infoURL))
	}

	resp, err := s.client().Do(req)
	if err != nil {
		return ImageInfo{}, &ServiceError{ImageID: imageID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ImageInfo{}, &ServiceError{ImageID: imageID, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var info struct {
		ID      string `json:"@id"`
		Context any    `json:"@context"`
		Profile any    `json:"profile"`
		Width   int    `json:"width"`
		Height  int    `json:"height"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return ImageInfo{}, &ServiceError{ImageID: imageID, Err: fmt.Errorf("decode info response: %w", err)}
	}

	return ImageInfo{
		URI:     info.ID,
		Context: info.Context,
		Profile: info.Profile,
		Width:   info.Width,
		Height:  info.Height,
	}, nil
}
