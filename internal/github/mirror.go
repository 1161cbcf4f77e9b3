package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v81/github"
)

// FetchedFile is one markdown file pulled from the content repository.
type FetchedFile struct {
	Path    string // Relative path within the content directory
	Content string // Full markdown content
	SHA     string // File's Git blob SHA
}

// Mirror fetches markdown content from a GitHub repository and writes
// it to a local directory. The corpus loader indexes from that
// directory, so a sync followed by a reload picks up new content.
type Mirror struct {
	client   *Client
	owner    string
	repo     string
	basePath string
}

// NewMirror creates a mirror for one repository content directory.
func NewMirror(client *Client, owner, repo, basePath string) *Mirror {
	return &Mirror{
		client:   client,
		owner:    owner,
		repo:     repo,
		basePath: basePath,
	}
}

// ListFiles recursively lists all markdown files under the content directory.
func (m *Mirror) ListFiles(ctx context.Context) ([]string, error) {
	return m.listRecursive(ctx, m.basePath, "")
}

func (m *Mirror) listRecursive(ctx context.Context, fullPath, relativePath string) ([]string, error) {
	var files []string

	dirContents, err := m.getDirContents(ctx, fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get contents of %s: %w", fullPath, err)
	}

	for _, item := range dirContents {
		if item.Type == nil || item.Name == nil {
			continue
		}

		itemRelPath := path.Join(relativePath, *item.Name)

		switch *item.Type {
		case "file":
			if strings.HasSuffix(*item.Name, ".md") {
				files = append(files, itemRelPath)
			}

		case "dir":
			itemFullPath := path.Join(fullPath, *item.Name)
			sub, err := m.listRecursive(ctx, itemFullPath, itemRelPath)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
		}
	}

	return files, nil
}

// getDirContents lists a directory with exponential backoff retry.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (m *Mirror) getDirContents(ctx context.Context, fullPath string) ([]*github.RepositoryContent, error) {
	var dirContents []*github.RepositoryContent

	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		var err error
		_, dirContents, _, err = m.client.Repositories.GetContents(ctx, m.owner, m.repo, fullPath, nil)
		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(exponentialBackoff, ctx)); err != nil {
		return nil, err
	}
	return dirContents, nil
}

// FetchFile fetches the content of a specific markdown file.
func (m *Mirror) FetchFile(ctx context.Context, relativePath string) (*FetchedFile, error) {
	fullPath := path.Join(m.basePath, relativePath)

	fileContent, _, _, err := m.client.Repositories.GetContents(ctx, m.owner, m.repo, fullPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get content of %s: %w", fullPath, err)
	}
	if fileContent == nil {
		return nil, fmt.Errorf("no file content returned for %s", fullPath)
	}

	content, err := base64.StdEncoding.DecodeString(*fileContent.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content of %s: %w", fullPath, err)
	}

	return &FetchedFile{
		Path:    relativePath,
		Content: string(content),
		SHA:     *fileContent.SHA,
	}, nil
}

// Sync downloads every markdown file to destDir, preserving relative
// paths. Returns the number of files written.
func (m *Mirror) Sync(ctx context.Context, destDir string) (int, error) {
	paths, err := m.ListFiles(ctx)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, relPath := range paths {
		file, err := m.FetchFile(ctx, relPath)
		if err != nil {
			return written, err
		}

		localPath := filepath.Join(destDir, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return written, fmt.Errorf("failed to create directory for %s: %w", relPath, err)
		}
		if err := os.WriteFile(localPath, []byte(file.Content), 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", relPath, err)
		}
		written++
	}

	return written, nil
}

// LatestCommitSHA retrieves the SHA of the most recent commit affecting
// the content directory.
func (m *Mirror) LatestCommitSHA(ctx context.Context) (string, error) {
	commits, _, err := m.client.Repositories.ListCommits(
		ctx,
		m.owner,
		m.repo,
		&github.CommitsListOptions{
			Path: m.basePath,
			ListOptions: github.ListOptions{
				PerPage: 1,
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to get latest commit: %w", err)
	}
	if len(commits) == 0 {
		return "", fmt.Errorf("no commits found for path %s", m.basePath)
	}
	if commits[0].SHA == nil {
		return "", fmt.Errorf("commit SHA is nil")
	}

	return *commits[0].SHA, nil
}
