package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/getyourdepa/depa-cms/internal/common"
	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/getyourdepa/depa-cms/internal/repository"
	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"
)

const (
	keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	keyLength   = 6
	maxAttempts = 5
)

// ErrKeyExhausted is returned when every generated key collided.
var ErrKeyExhausted = errors.New("could not allocate a unique short key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// ShortLinkService creates and resolves short links.
type ShortLinkService interface {
	Shorten(ctx context.Context, longURL string) (*domain.ShortenResponse, error)
	Resolve(ctx context.Context, key string) (string, error)
}

type shortLinkService struct {
	repo         repository.ShortLinkRepository
	baseURL      string
	blockedHosts []string
	newKey       func() (string, error)
	now          func() time.Time
}

// NewShortLinkService creates a service issuing <baseURL>/r/<key> links.
// Targets on blockedHosts are refused.
func NewShortLinkService(repo repository.ShortLinkRepository, baseURL string, blockedHosts []string) ShortLinkService {
	return &shortLinkService{
		repo:         repo,
		baseURL:      strings.TrimRight(baseURL, "/"),
		blockedHosts: blockedHosts,
		newKey:       GenerateKey,
		now:          time.Now,
	}
}

// Shorten stores longURL under a fresh random key. A key that already
// exists is never overwritten; another key is drawn instead.
func (s *shortLinkService) Shorten(ctx context.Context, longURL string) (*domain.ShortenResponse, error) {
	longURL = strings.TrimSpace(longURL)
	if err := common.ValidateTargetURL(longURL, s.blockedHosts); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		key, err := s.newKey()
		if err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}

		link := &domain.ShortLink{Key: key, LongURL: longURL, CreatedAt: s.now().UTC()}
		err = s.repo.CreateIfAbsent(ctx, link)
		if errors.Is(err, common.ErrAlreadyExists) {
			pkglogger.GetLogger().Warn().Str("key", key).Int("attempt", attempt).Msg("short key collision")
			continue
		}
		if err != nil {
			return nil, err
		}

		return &domain.ShortenResponse{
			Success:  true,
			ShortURL: s.baseURL + "/r/" + key,
			Key:      key,
		}, nil
	}

	return nil, ErrKeyExhausted
}

// Resolve returns the target of key. Malformed keys are reported as not found.
func (s *shortLinkService) Resolve(ctx context.Context, key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", common.ErrNotFound
	}
	link, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return "", err
	}
	return link.LongURL, nil
}

// GenerateKey returns 6 characters drawn uniformly from [A-Za-z0-9].
func GenerateKey() (string, error) {
	max := big.NewInt(int64(len(keyAlphabet)))
	var b strings.Builder
	b.Grow(keyLength)
	for i := 0; i < keyLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(keyAlphabet[n.Int64()])
	}
	return b.String(), nil
}
