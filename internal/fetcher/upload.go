package fetcher

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/metadata"
	"github.com/mrlokans/novelreader/internal/textcodec"
	"github.com/mrlokans/novelreader/internal/utils"
)

const MaxUploadSize = 100 * 1024 * 1024

// FetchFromUpload reads an uploaded file. size is the declared size, or -1
// when unknown; the body is still capped at MaxUploadSize while reading.
func (c *Client) FetchFromUpload(filename string, size int64, r io.Reader) (*entities.FetchResult, error) {
	if !utils.IsSupportedTextFile(filename) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
	if size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", filename, err)
	}
	if len(raw) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	text, charset := textcodec.DecodeWithCharset(raw)
	info := metadata.Extract(text, filename)

	c.logger.Info("read uploaded novel",
		zap.String("file", filename),
		zap.String("charset", string(charset)),
		zap.String("title", info.Title))

	return &entities.FetchResult{
		Content:  text,
		Title:    info.Title,
		Author:   info.Author,
		FileSize: utils.FormatFileSize(int64(len(raw))),
	}, nil
}
