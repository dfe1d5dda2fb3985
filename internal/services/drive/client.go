package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"cratepress/internal/catalog"
	"cratepress/internal/config"
	"cratepress/internal/logging"
	"cratepress/internal/services"
)

const listPageSize = 100

const imageQuery = "(mimeType='image/jpeg' or mimeType='image/png') and trashed=false"

// Client reads record photos from a Google Drive folder.
type Client struct {
	service  *drive.Service
	folderID string
	logger   *slog.Logger
}

// New constructs a Drive client from configuration. Credentials come from
// the configured service account file or application default credentials.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil || !cfg.DriveConfigured() {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "new", "drive folder id is not configured", nil)
	}

	opts := []option.ClientOption{option.WithScopes(drive.DriveReadonlyScope)}
	if cfg.Drive.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Drive.CredentialsFile))
	}

	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "new", "create drive service", err)
	}

	return &Client{
		service:  service,
		folderID: cfg.Drive.FolderID,
		logger:   logging.WithComponent(logger, "drive"),
	}, nil
}

// List returns every image in the configured folder as a raw asset.
func (c *Client) List(ctx context.Context) ([]catalog.RawAsset, error) {
	query := fmt.Sprintf("'%s' in parents and %s", c.folderID, imageQuery)

	var assets []catalog.RawAsset
	pageToken := ""
	for {
		call := c.service.Files.List().
			Context(ctx).
			Q(query).
			Spaces("drive").
			Fields("nextPageToken, files(id, name, mimeType, modifiedTime)").
			OrderBy("modifiedTime").
			PageSize(listPageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, classify("list", "list folder images", err)
		}

		for _, file := range page.Files {
			assets = append(assets, assetFromFile(file))
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.logger.Debug("listed folder images", logging.Int("count", len(assets)))
	return assets, nil
}

// Download fetches the bytes of a single image.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, classify("download", "download image", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "drive", "download", "read image body", err)
	}
	return data, nil
}

// ViewURL returns the human-facing Drive link for a file.
func (c *Client) ViewURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", fileID)
}

func classify(op, msg string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return services.Wrap(services.ErrAuth, "drive", op, msg, err)
		case http.StatusNotFound:
			return services.Wrap(services.ErrConfiguration, "drive", op, msg, err)
		}
	}
	return services.Wrap(services.ErrTransient, "drive", op, msg, err)
}
