package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/foxzi/unisender-sync/internal/models"
)

type CampaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

const campaignColumns = `id, name, email_message_id, status, recipient_count, success_count, error_count,
	unisender_id, last_error, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }, c *models.Campaign) error {
	return row.Scan(&c.ID, &c.Name, &c.EmailMessageID, &c.Status, &c.RecipientCount, &c.SuccessCount, &c.ErrorCount,
		&c.UnisenderID, &c.LastError, &c.CreatedAt, &c.UpdatedAt)
}

// Create creates a new campaign
func (r *CampaignRepository) Create(c *models.Campaign) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	res, err := r.db.Exec(`
		INSERT INTO campaigns (name, email_message_id, status, unisender_id, last_error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.EmailMessageID, c.Status, c.UnisenderID, c.LastError, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	c.ID, err = res.LastInsertId()
	return err
}

// GetByID returns a campaign with its message and contacts
func (r *CampaignRepository) GetByID(id int64) (*models.Campaign, error) {
	c := &models.Campaign{}
	err := scanCampaign(r.db.QueryRow("SELECT "+campaignColumns+" FROM campaigns WHERE id = ?", id), c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	message, err := NewMessageRepository(r.db).GetByID(c.EmailMessageID)
	if err != nil {
		return nil, err
	}
	if message != nil {
		c.EmailMessage = *message
	}

	if c.Contacts, err = r.GetContacts(id); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns all campaigns without relations
func (r *CampaignRepository) List() ([]models.Campaign, error) {
	return r.query("SELECT " + campaignColumns + " FROM campaigns ORDER BY id")
}

// ListTrackable returns remotely created campaigns whose status can still
// change, least recently polled first
func (r *CampaignRepository) ListTrackable(limit int) ([]models.Campaign, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(models.FinalCampaignStatuses)), ",")
	query := "SELECT " + campaignColumns + " FROM campaigns WHERE unisender_id != 0 AND status NOT IN (" +
		placeholders + ") ORDER BY polled_at, id"

	args := make([]any, 0, len(models.FinalCampaignStatuses)+1)
	for _, s := range models.FinalCampaignStatuses {
		args = append(args, s)
	}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.query(query, args...)
}

func (r *CampaignRepository) query(query string, args ...any) ([]models.Campaign, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// UpdateTracking stores the remote status and delivery counters
func (r *CampaignRepository) UpdateTracking(c *models.Campaign) error {
	c.UpdatedAt = time.Now()
	_, err := r.db.Exec(`
		UPDATE campaigns SET status = ?, recipient_count = ?, success_count = ?, error_count = ?, updated_at = ?
		WHERE id = ?`,
		c.Status, c.RecipientCount, c.SuccessCount, c.ErrorCount, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign tracking: %w", err)
	}
	return nil
}

// MarkPolled records that the campaign status was just requested, moving it to
// the end of the trackable queue
func (r *CampaignRepository) MarkPolled(id int64) error {
	_, err := r.db.Exec("UPDATE campaigns SET polled_at = ? WHERE id = ?", time.Now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to mark campaign polled: %w", err)
	}
	return nil
}

// CountByStatus returns the number of campaigns per status
func (r *CampaignRepository) CountByStatus() (map[string]int, error) {
	rows, err := r.db.Query("SELECT status, COUNT(*) FROM campaigns GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// Delete deletes a campaign
func (r *CampaignRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM campaigns WHERE id = ?", id)
	return err
}

// AddContact attaches a subscriber as a campaign contact. Attaching twice is a no-op.
func (r *CampaignRepository) AddContact(campaignID, subscriberID int64) error {
	_, err := r.db.Exec(
		"INSERT OR IGNORE INTO campaign_contacts (campaign_id, subscriber_id) VALUES (?, ?)",
		campaignID, subscriberID,
	)
	if err != nil {
		return fmt.Errorf("failed to add contact: %w", err)
	}
	return nil
}

// GetContacts returns campaign contacts in attachment order
func (r *CampaignRepository) GetContacts(campaignID int64) ([]models.Subscriber, error) {
	rows, err := r.db.Query(`
		SELECT s.id, s.contact, s.contact_type, s.double_optin, s.unisender_id, s.last_error, s.created_at
		FROM campaign_contacts cc
		JOIN subscribers s ON cc.subscriber_id = s.id
		WHERE cc.campaign_id = ?
		ORDER BY cc.id`, campaignID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []models.Subscriber{}
	for rows.Next() {
		var s models.Subscriber
		if err := scanSubscriber(rows, &s); err != nil {
			return nil, err
		}
		contacts = append(contacts, s)
	}
	return contacts, rows.Err()
}
