// workers/club_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"club-management-system/models"
	"club-management-system/services"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// MirroredClubFromMembership matches the JSON response from the membership
// service.
type MirroredClubFromMembership struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetClubChangesResponse is the top-level structure of the membership service
// response.
type GetClubChangesResponse struct {
	Clubs []MirroredClubFromMembership `json:"clubs"`
}

// ClubSyncWorker mirrors club records from the membership service into the
// local clubs table. A club seen for the first time also gets zeroed progress
// rows for every activated competition.
type ClubSyncWorker struct {
	db           *gorm.DB
	tracker      *services.MissionProgressTracker
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewClubSyncWorker(db *gorm.DB, tracker *services.MissionProgressTracker, membershipBaseURL, endpointPath, serviceToken string) *ClubSyncWorker {
	return &ClubSyncWorker{
		db:           db,
		tracker:      tracker,
		interval:     1 * time.Minute,
		baseURL:      membershipBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *ClubSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Club Sync Worker (membership-service → clubs)…")
	go w.run(ctx)
}

func (w *ClubSyncWorker) run(ctx context.Context) {
	// Initial sync (backfill if needed) - sync from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial club sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lastSyncTime := w.getLastSyncTime()
			if err := w.syncBatch(ctx, lastSyncTime); err != nil {
				log.Printf("❌ Club sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Club Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt from the local clubs table.
func (w *ClubSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM clubs WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

// syncBatch fetches club changes from the membership service and upserts the
// local clubs table.
func (w *ClubSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid membership service URL '%s': %w", w.baseURL, err)
	}

	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to membership service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("membership service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response GetClubChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode membership service response: %w", err)
	}

	if len(response.Clubs) == 0 {
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d club(s) from membership service…", len(response.Clubs))

	var upsertCount, newCount, errorCount int
	for _, remote := range response.Clubs {
		created, err := w.upsertClub(&remote)
		if err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert club (id=%q, name=%q): %v", remote.ID, remote.Name, err)
			continue
		}
		upsertCount++
		if created {
			newCount++
			if err := w.tracker.InitializeForNewClub(remote.ID); err != nil {
				log.Printf("[SYNC] ⚠️ Progress init incomplete for new club %s: %v", remote.ID, err)
			}
		}
	}

	log.Printf("[SYNC] ✅ Synced %d clubs (%d upserted, %d new, %d errors)",
		len(response.Clubs), upsertCount, newCount, errorCount)
	return nil
}

// upsertClub writes one mirrored club row and reports whether it was newly
// created locally.
func (w *ClubSyncWorker) upsertClub(remote *MirroredClubFromMembership) (bool, error) {
	var existing models.Club
	err := w.db.First(&existing, "id = ?", remote.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		club := models.Club{
			ID:          remote.ID,
			Name:        remote.Name,
			Slug:        slug.Make(remote.Name),
			Description: remote.Description,
			LogoURL:     remote.LogoURL,
			MemberCount: remote.MemberCount,
		}
		if err := w.db.Create(&club).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	existing.Name = remote.Name
	existing.Slug = slug.Make(remote.Name)
	existing.Description = remote.Description
	existing.LogoURL = remote.LogoURL
	existing.MemberCount = remote.MemberCount
	return false, w.db.Save(&existing).Error
}
