package labels

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// Source yields labels for the sphere.
type Source interface {
	Name() string
	Labels(ctx context.Context) ([]string, error)
}

// StaticSource is a fixed list of labels.
type StaticSource []string

func (s StaticSource) Name() string { return "static" }

func (s StaticSource) Labels(context.Context) ([]string, error) {
	return s, nil
}

// FileSource reads labels from a YAML or JSON file.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file:" + s.Path }

func (s *FileSource) Labels(context.Context) ([]string, error) {
	return LoadFile(s.Path)
}

// SheetSource reads the cloud words of a published spreadsheet.
type SheetSource struct {
	URL    string
	Client *http.Client
}

func (s *SheetSource) Name() string { return "sheet" }

func (s *SheetSource) Labels(ctx context.Context) ([]string, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	page, err := FetchSheet(ctx, client, s.URL)
	if err != nil {
		return nil, err
	}
	messages, err := ParseMessages(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}
	return ExtractCloudWords(messages), nil
}

// Collect reads every source in order and merges the results.
func Collect(ctx context.Context, logger *slog.Logger, sources ...Source) ([]string, error) {
	lists := make([][]string, 0, len(sources))
	for _, source := range sources {
		list, err := source.Labels(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read labels from %s: %w", source.Name(), err)
		}
		logger.Debug("labels loaded", slog.String("source", source.Name()), slog.Int("count", len(list)))
		lists = append(lists, list)
	}
	return Merge(lists...), nil
}
