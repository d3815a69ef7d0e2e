package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// ArchiveService keeps the raw uploaded PDFs. The base URL picks the backend
// (file://, mem://, s3://, gs:// ...). An empty base URL disables archiving.
type ArchiveService interface {
	Enabled() bool
	Save(ctx context.Context, tenderID, fileName string, data []byte) (string, error)
	Load(ctx context.Context, archiveURL string) ([]byte, error)
	Delete(ctx context.Context, archiveURL string) error
}

type archiveService struct {
	fs      afs.Service
	baseURL string
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func NewArchiveService(baseURL string) ArchiveService {
	return &archiveService{
		fs:      afs.New(),
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

func (s *archiveService) Enabled() bool {
	return s.baseURL != ""
}

// Save stores the upload under <base>/<tender id>_<file name> and returns its URL.
func (s *archiveService) Save(ctx context.Context, tenderID, fileName string, data []byte) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	name := unsafeNameChars.ReplaceAllString(filepath.Base(fileName), "_")
	target := url.Join(s.baseURL, fmt.Sprintf("%s_%s", tenderID, name))

	if err := s.fs.Upload(ctx, target, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to archive file: %w", err)
	}

	return target, nil
}

func (s *archiveService) Load(ctx context.Context, archiveURL string) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(ctx, archiveURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load archived file: %w", err)
	}
	return data, nil
}

func (s *archiveService) Delete(ctx context.Context, archiveURL string) error {
	if archiveURL == "" {
		return nil
	}
	if err := s.fs.Delete(ctx, archiveURL); err != nil {
		return fmt.Errorf("failed to delete archived file: %w", err)
	}
	return nil
}
