package iiif

import (
	"context"
	"fmt"
)

// Image combines an image identifier, the remote metadata service, and an
// Image API parameter set. The remote metadata is fetched once per node.
type Image struct {
	service InfoService
	imageID string
	params  *Params
	info    cell[ImageInfo]
}

func newImage(service InfoService, imageID string, params Params) *Image {
	p := params
	return &Image{service: service, imageID: imageID, params: &p}
}

// ImageID returns the image identifier.
func (i *Image) ImageID() string {
	return i.imageID
}

// Info returns the remote image metadata, fetching it on first access.
func (i *Image) Info(ctx context.Context) (ImageInfo, error) {
	return i.info.get(func() (ImageInfo, error) {
		return i.service.Info(ctx, i.imageID)
	})
}

// URI returns the image request URL: the metadata base URI plus the
// serialized parameter suffix.
func (i *Image) URI(ctx context.Context) (string, error) {
	info, err := i.Info(ctx)
	if err != nil {
		return "", err
	}
	if i.params == nil {
		return info.URI, nil
	}
	return info.URI + i.params.String(), nil
}

// MarshalMap serializes the image as a dctypes:Image resource with its
// embedded image service block.
func (i *Image) MarshalMap(ctx context.Context) (map[string]any, error) {
	info, err := i.Info(ctx)
	if err != nil {
		return nil, err
	}
	uri, err := i.URI(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"@id":   uri,
		"@type": "dctypes:Image",
		"service": map[string]any{
			"@context": info.Context,
			"@id":      info.URI,
			"profile":  info.Profile,
		},
		"format": "image/jpeg",
		"height": info.Height,
		"width":  info.Width,
	}, nil
}

// ThumbnailMap serializes a size-constrained variant of the image: fixed
// width, height derived from the exact aspect ratio.
func (i *Image) ThumbnailMap(ctx context.Context, width int) (map[string]any, error) {
	info, err := i.Info(ctx)
	if err != nil {
		return nil, err
	}
	height := scaledHeight(width, info.AspectRatio())
	params := Params{
		Region:   "full",
		Size:     fmt.Sprintf("%d,%d", width, height),
		Rotation: "0",
		Quality:  "default",
		Format:   "jpg",
	}

	out, err := i.MarshalMap(ctx)
	if err != nil {
		return nil, err
	}
	out["@id"] = info.URI + params.String()
	out["height"] = height
	out["width"] = width
	return out, nil
}
