package transcode

import "context"

// Upload is a direct-upload slot registered with the provider. The
// asset id stays empty until the provider has received the file.
type Upload struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AssetID string `json:"assetId"`
}

// Asset is the provider's view of a processed video
type Asset struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	PlaybackID string `json:"playbackId"`
	DurationMs int64  `json:"durationMs"`
}

// Provider is the seam to the hosted video-processing service. Status
// is pulled by the application (revalidate), never pushed.
type Provider interface {
	CreateUpload(ctx context.Context, passthrough string) (*Upload, error)
	GetUpload(ctx context.Context, uploadID string) (*Upload, error)
	GetAsset(ctx context.Context, assetID string) (*Asset, error)
	ThumbnailURL(playbackID string) string
	PreviewURL(playbackID string) string
}

// Logger is the logging surface the transcode client needs
type Logger interface {
	LogInfo(msg string, fields map[string]interface{})
	LogError(err error, msg string) error
}
