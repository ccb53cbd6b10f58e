package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/indysafe/safety-bot-api/api"
	"github.com/indysafe/safety-bot-api/config"
	"github.com/indysafe/safety-bot-api/databases"
	"github.com/indysafe/safety-bot-api/models"
)

// ReportRetention is how long a citizen report is kept before the
// sweep removes it and its images.
const ReportRetention = 48 * time.Hour

// Cleanup deletes expired reports, either on demand via the admin
// endpoint or from the scheduler.
type Cleanup struct {
	DB     databases.ReportDatabase
	Config config.Config
}

// CleanupHandler handles GET /cleanup. The admin key comes in as a
// query parameter and must match exactly.
func (c *Cleanup) CleanupHandler(w http.ResponseWriter, r *http.Request) {
	if !adminKeyMatches(r.URL.Query().Get("key"), c.Config.AdminKey) {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errors.New("admin key mismatch"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	deleted, err := c.Sweep(ctx)
	if err != nil {
		config.ErrorStatus("failed to delete expired reports", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(models.CleanupResponse{Deleted: deleted})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// Sweep removes every report older than the retention window along
// with its stored images. Image removal is best effort; a missing
// file must not keep the database row alive.
func (c *Cleanup) Sweep(ctx context.Context) (int64, error) {
	cutoff := primitive.NewDateTimeFromTime(time.Now().Add(-ReportRetention))
	filter := bson.M{"createdAt": bson.M{"$lt": cutoff}}

	expired, err := c.DB.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	for _, report := range expired {
		for _, path := range report.Images {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				zap.S().Warnw("failed to remove report image", "file", path, "error", err)
			}
		}
	}

	deleted, err := c.DB.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	zap.S().Infow("report retention sweep finished", "deleted", deleted)
	return deleted, nil
}

// adminKeyMatches compares in constant time and refuses an empty
// configured key so an unset ADMIN_KEY never means an open endpoint.
func adminKeyMatches(got, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
