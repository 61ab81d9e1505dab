package service

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/getyourdepa/depa-cms/internal/common"
	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/getyourdepa/depa-cms/pkg/storage"
)

const galleryFolder = imagesFolder + "/gallery"

var imageName = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)

// GalleryService lists and uploads images in the object store.
type GalleryService interface {
	List(ctx context.Context) ([]domain.GalleryItem, error)
	Upload(ctx context.Context, up domain.Upload) (*domain.GalleryItem, error)
}

type galleryService struct {
	objects storage.ObjectStore
	covers  *CoverImages
	now     func() time.Time
}

func NewGalleryService(objects storage.ObjectStore, covers *CoverImages) GalleryService {
	return &galleryService{objects: objects, covers: covers, now: time.Now}
}

// List returns every image object in the store, newest first.
func (s *galleryService) List(ctx context.Context) ([]domain.GalleryItem, error) {
	objects, err := s.objects.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].Updated.After(objects[j].Updated)
	})

	items := make([]domain.GalleryItem, 0, len(objects))
	for _, obj := range objects {
		if !imageName.MatchString(obj.Path) {
			continue
		}
		items = append(items, domain.GalleryItem{Name: obj.Path, URL: s.objects.PublicURL(obj.Path)})
	}
	return items, nil
}

// Upload stores up at images/gallery/<unixmillis>-<basename>.
func (s *galleryService) Upload(ctx context.Context, up domain.Upload) (*domain.GalleryItem, error) {
	if len(up.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", common.ErrInvalidInput)
	}
	name := baseName(up.Filename)
	if name == "" {
		return nil, fmt.Errorf("%w: missing file name", common.ErrInvalidInput)
	}

	objectPath := fmt.Sprintf("%s/%d-%s", galleryFolder, s.now().UnixMilli(), name)
	url, err := s.covers.put(ctx, objectPath, up)
	if err != nil {
		return nil, err
	}
	return &domain.GalleryItem{Name: objectPath, URL: url}, nil
}

// baseName drops any client-supplied directories, including Windows ones.
func baseName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
