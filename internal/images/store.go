package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/repslog/server/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrImageNotFound = errors.New("image not found")

const indexFileName = "images-index.json"

// Image is a stored image file: an exercise catalog image or a workout scan.
type Image struct {
	Id        int64     `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Type      string    `json:"type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store keeps image files in a flat directory on disk,
// with a JSON index file next to them.
type Store struct {
	rootPath string
	index    map[int64]*Image
	mutex    sync.RWMutex
}

func NewStore(rootPath string) (*Store, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("create root dir: %w", err)
	}

	index, err := loadIndex(rootPath)
	if err != nil {
		return nil, fmt.Errorf("load images index: %w", err)
	}

	return &Store{
		rootPath: rootPath,
		index:    index,
	}, nil
}

type SaveParams struct {
	Filename string
	Size     int64
	FileType string
	File     io.Reader
}

func (s *Store) Save(ctx context.Context, params SaveParams) (_ int64, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "imagesStore.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	span.SetAttributes(attribute.String("image.name", params.Filename))
	span.SetAttributes(attribute.Int64("image.size", params.Size))
	log.Debugf("images store: saving new image: %s", params.Filename)

	// the filename comes from a multipart header, strip any path part
	// so it cannot point outside the store root
	filename := sanitizeFilename(params.Filename)

	newId := newId()
	newFileName := fmt.Sprintf("%d_%s", newId, filename)
	newFilePath := path.Join(s.rootPath, newFileName)

	// write the file without holding the lock
	dst, err := os.Create(newFilePath)
	if err != nil {
		return -1, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, params.File); err != nil {
		return -1, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.index[newId] = &Image{
		Id:        newId,
		Name:      filename,
		Path:      newFilePath,
		Type:      params.FileType,
		Size:      params.Size,
		CreatedAt: time.Now(),
	}

	if err := saveIndex(s.rootPath, s.index); err != nil {
		return -1, fmt.Errorf("image saved, but failed to save index: %w", err)
	}

	return newId, nil
}

func (s *Store) Get(ctx context.Context, id int64) (_ *Image, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "imagesStore.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("image.id", id))

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	image, ok := s.index[id]
	if !ok {
		return nil, ErrImageNotFound
	}
	return image, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "imagesStore.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("image.id", id))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	image, ok := s.index[id]
	if !ok {
		return ErrImageNotFound
	}

	if err := os.Remove(image.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image file: %w", err)
	}

	delete(s.index, id)

	if err := saveIndex(s.rootPath, s.index); err != nil {
		return fmt.Errorf("image deleted, but failed to save index: %w", err)
	}

	log.Debugf("images store: image [%d] deleted", id)

	return nil
}

func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = path.Base(filename)
	if filename == "." || filename == ".." || filename == "/" || filename == "" {
		return "image"
	}
	return filename
}

var lastId int64
var idMutex sync.Mutex

// newId returns a timestamp based ID, strictly increasing even
// when two images arrive within the same nanosecond tick.
func newId() int64 {
	idMutex.Lock()
	defer idMutex.Unlock()

	id := time.Now().UnixNano()
	if id <= lastId {
		id = lastId + 1
	}
	lastId = id
	return id
}

func loadIndex(rootPath string) (map[int64]*Image, error) {
	indexPath := path.Join(rootPath, indexFileName)
	indexBytes, err := os.ReadFile(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int64]*Image{}, nil
		}
		return nil, err
	}

	var index map[int64]*Image
	if err := json.Unmarshal(indexBytes, &index); err != nil {
		return nil, fmt.Errorf("unmarshal index: %w", err)
	}
	return index, nil
}

func saveIndex(rootPath string, index map[int64]*Image) error {
	indexBytes, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	return os.WriteFile(path.Join(rootPath, indexFileName), indexBytes, 0o644)
}
