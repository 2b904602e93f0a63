// Package syncer mirrors local records into Unisender.
//
// Each method performs exactly one remote call. A remote error code is stored
// on the record's LastError and the method returns its zero value with a nil
// error; Go errors are returned only when the call or the local bookkeeping
// could not be completed.
package syncer

import (
	"fmt"
	"log/slog"

	"github.com/foxzi/unisender-sync/internal/errcodes"
	"github.com/foxzi/unisender-sync/internal/metrics"
	"github.com/foxzi/unisender-sync/internal/models"
	"github.com/foxzi/unisender-sync/internal/unisender"
)

// StateStore persists remote ids and error codes
type StateStore interface {
	Save(entity models.Entity, id int64, state models.SyncState) error
}

// SyncLog records sync attempts
type SyncLog interface {
	Record(e *models.SyncLogEntry) error
}

// TrackingStore persists campaign status and counters
type TrackingStore interface {
	UpdateTracking(c *models.Campaign) error
}

// Syncer calls the Unisender API on behalf of local records
type Syncer struct {
	api       unisender.API
	states    StateStore
	log       SyncLog
	campaigns TrackingStore
	logger    *slog.Logger
}

// New creates a new syncer
func New(api unisender.API, states StateStore, log SyncLog, campaigns TrackingStore, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		api:       api,
		states:    states,
		log:       log,
		campaigns: campaigns,
		logger:    logger.With("component", "syncer"),
	}
}

// CampaignStatus returns the status facade for a remote campaign id
func (s *Syncer) CampaignStatus(campaignID int64) *CampaignStatus {
	return NewCampaignStatus(s.api, campaignID, s.logger)
}

// settle stores the call outcome on the record and in the sync log.
// code is the remote error code, empty on success.
func (s *Syncer) settle(entity models.Entity, id int64, state *models.SyncState, method, code string) error {
	state.LastError = code

	status := models.SyncOK
	if code != "" {
		status = models.SyncError
		s.logger.Warn("unisender call failed",
			"entity", entity,
			"id", id,
			"method", method,
			"code", code,
			"message", errcodes.Message(code))
	}
	metrics.IncSync(string(entity), status)

	if err := s.states.Save(entity, id, *state); err != nil {
		return err
	}
	if err := s.log.Record(&models.SyncLogEntry{
		Entity:    entity,
		EntityID:  id,
		Method:    method,
		Status:    status,
		ErrorCode: code,
	}); err != nil {
		return err
	}
	return nil
}

// createCode returns the error code of a create response. A success
// envelope without a result is stored as unspecified.
func createCode[T any](resp *unisender.Envelope[T]) string {
	if code := resp.ErrorCode(); code != "" {
		return code
	}
	if resp.Result == nil {
		return errcodes.Unspecified
	}
	return ""
}

func callError(method string, err error) error {
	return fmt.Errorf("%s: %w", method, err)
}
