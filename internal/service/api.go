package service

import (
	"context"
	"net/url"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
)

// api is the subset of apiclient.Client the domain services require.
type api interface {
	Get(ctx context.Context, path string, params map[string]string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
	UploadImages(ctx context.Context, path string, files []apiclient.File, out any) error
}

func escape(id string) string {
	return url.PathEscape(id)
}
