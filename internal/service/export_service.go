package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/metrics"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/repository"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const exportContentType = "text/csv"

// Export is a finished history export ready for download.
type Export struct {
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Completions int       `json:"completions"`
	Sessions    int       `json:"sessions"`
}

type ExportService interface {
	// ExportHistory writes the user's completions and sessions to one CSV
	// object and returns a temporary download link for it.
	ExportHistory(ctx context.Context, userID primitive.ObjectID) (*Export, error)
}

type exportService struct {
	completionRepo repository.CompletionRepository
	sessionRepo    repository.SessionRepository
	fileStorage    storage.FileStorage
	clock          domain.Clock
	urlExpiry      time.Duration
	metrics        *metrics.Manager
}

func NewExportService(
	completionRepo repository.CompletionRepository,
	sessionRepo repository.SessionRepository,
	fileStorage storage.FileStorage,
	clock domain.Clock,
	urlExpiry time.Duration,
	metricsManager *metrics.Manager,
) ExportService {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{
		completionRepo: completionRepo,
		sessionRepo:    sessionRepo,
		fileStorage:    fileStorage,
		clock:          clock,
		urlExpiry:      urlExpiry,
		metrics:        metricsManager,
	}
}

var exportHeader = []string{"record", "date", "workout_day", "workout_name", "status", "start_time", "end_time", "duration_minutes"}

func (s *exportService) ExportHistory(ctx context.Context, userID primitive.ObjectID) (*Export, error) {
	completions, err := s.completionRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, storeFailure("list completions", err)
	}
	sessions, err := s.sessionRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, storeFailure("list sessions", err)
	}

	body, err := historyCSV(completions, sessions)
	if err != nil {
		return nil, fmt.Errorf("build export: %w", err)
	}

	now := s.clock.Now()
	objectKey := fmt.Sprintf("exports/%s/%s-%s.csv", userID.Hex(), domain.DateOf(now), uuid.NewString())
	if err := s.fileStorage.PutObject(ctx, objectKey, exportContentType, bytes.NewReader(body), int64(len(body))); err != nil {
		return nil, fmt.Errorf("upload export: %w: %w", ErrStoreUnavailable, err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, s.urlExpiry)
	if err != nil {
		// nobody can download it, so do not leave it in the bucket
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			log.WithError(delErr).Warnf("failed to remove unreachable export %s", objectKey)
		}
		return nil, fmt.Errorf("presign export: %w: %w", ErrStoreUnavailable, err)
	}

	s.metrics.CounterExports.Inc()
	log.Infof("exported %d completions and %d sessions for %s", len(completions), len(sessions), userID.Hex())
	return &Export{
		ObjectKey:   objectKey,
		DownloadURL: url,
		ExpiresAt:   now.Add(s.urlExpiry).UTC(),
		Completions: len(completions),
		Sessions:    len(sessions),
	}, nil
}

func historyCSV(completions []domain.WorkoutCompletion, sessions []domain.WorkoutSession) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}

	for _, c := range completions {
		row := []string{"completion", c.CompletionDate.String(), string(c.WorkoutDay), c.WorkoutName, "completed", "", "", ""}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	for _, sess := range sessions {
		row := []string{
			"session",
			sess.SessionDate.String(),
			string(sess.WorkoutDay),
			sess.WorkoutName,
			string(sess.Status),
			sess.StartTime.UTC().Format(time.RFC3339),
			"",
			"",
		}
		if sess.EndTime != nil {
			row[6] = sess.EndTime.UTC().Format(time.RFC3339)
		}
		if sess.DurationMinutes != nil {
			row[7] = strconv.Itoa(*sess.DurationMinutes)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
