package cloudinary

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client uploads profile pictures. Callers depend on the interface so
// handlers can be tested without Cloudinary credentials.
type Client interface {
	UploadAvatar(ctx context.Context, file io.Reader, userID uint) (url string, err error)
}

const avatarFolder = "skillswap/avatars"

// avatarEager resizes to a square crop with automatic quality and format.
const avatarEager = "q_auto,f_auto,w_400,h_400,c_fill"

var eagerAsyncFalse = false

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{cloudName: cloudName, uploader: up}, nil
}

// UploadAvatar stores the image under a per-user public ID so re-uploads
// replace the previous avatar instead of accumulating.
func (c *clientImpl) UploadAvatar(ctx context.Context, file io.Reader, userID uint) (string, error) {
	overwrite := true
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     avatarFolder,
		PublicID:   fmt.Sprintf("user_%d", userID),
		Overwrite:  &overwrite,
		Eager:      avatarEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", err
	}
	if len(result.Eager) > 0 && result.Eager[0].SecureURL != "" {
		return result.Eager[0].SecureURL, nil
	}
	return result.SecureURL, nil
}
