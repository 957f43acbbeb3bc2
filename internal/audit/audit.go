// Package audit records gateway-local operational events: logins, OTP
// sends, exports, bulk imports. The trail is telemetry about what passed
// through the gateway, not a copy of upstream business data.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Actor kinds.
const (
	ActorCustomer = "customer"
	ActorAdmin    = "admin"
	ActorSystem   = "system"
)

// Event actions recorded by the gateway.
const (
	ActionOTPSent          = "otp_sent"
	ActionCustomerLogin    = "customer_login"
	ActionCustomerLogout   = "customer_logout"
	ActionAdminLogin       = "admin_login"
	ActionAdminLoginFailed = "admin_login_failed"
	ActionAdminLogout      = "admin_logout"
	ActionCouponScratch    = "coupon_scratch"
	ActionCouponRedeem     = "coupon_redeem"
	ActionScreenshotUpload = "screenshot_upload"
	ActionScreenshotDelete = "screenshot_delete"
	ActionPaymentTypeSet   = "payment_type_set"
	ActionCustomersImport  = "customers_import"
	ActionCustomersExport  = "customers_export"
	ActionUserCreate       = "user_create"
	ActionUserUpdate       = "user_update"
)

// Event is one recorded gateway event.
type Event struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID string         `gorm:"type:text;index" json:"request_id"` // Correlates with access logs.
	ActorKind string         `gorm:"type:text;not null;index" json:"actor_kind"`
	Actor     string         `gorm:"type:text;index" json:"actor"` // Phone or email, as known.
	Action    string         `gorm:"type:text;not null;index" json:"action"`
	Detail    datatypes.JSON `gorm:"type:jsonb" json:"detail"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

// Migrate creates the audit schema.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(&Event{})
}

// Recorder persists events. A nil Recorder or a nil DB drops events
// silently; audit failures never fail the request that triggered them.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder constructs a Recorder backed by GORM.
func NewRecorder(conn *gorm.DB) *Recorder { return &Recorder{db: conn} }

// Record persists one event. detail may be nil.
func (r *Recorder) Record(ctx context.Context, requestID, actorKind, actor, action string, detail map[string]any) {
	if r == nil || r.db == nil {
		return
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	var detailJSON datatypes.JSON
	if len(detail) > 0 {
		raw, errMarshal := json.Marshal(detail)
		if errMarshal != nil {
			log.WithError(errMarshal).Warn("audit: encode detail")
		} else {
			detailJSON = datatypes.JSON(raw)
		}
	}
	event := Event{
		RequestID: requestID,
		ActorKind: actorKind,
		Actor:     actor,
		Action:    action,
		Detail:    detailJSON,
	}
	dbCtx, cancel := context.WithTimeout(withoutCancel(ctx), 5*time.Second)
	defer cancel()
	if errCreate := r.db.WithContext(dbCtx).Create(&event).Error; errCreate != nil {
		log.WithError(errCreate).WithField("action", action).Warn("audit: record event")
	}
}

// List returns a page of events, newest first, with the total count.
func (r *Recorder) List(ctx context.Context, page, perPage int) ([]Event, int64, error) {
	if r == nil || r.db == nil {
		return nil, 0, nil
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 500 {
		perPage = 10
	}
	var total int64
	if errCount := r.db.WithContext(ctx).Model(&Event{}).Count(&total).Error; errCount != nil {
		return nil, 0, errCount
	}
	var events []Event
	errFind := r.db.WithContext(ctx).
		Order("id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&events).Error
	if errFind != nil {
		return nil, 0, errFind
	}
	return events, total, nil
}

// withoutCancel detaches the audit write from the request lifetime so a
// client disconnect does not lose the event.
func withoutCancel(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
