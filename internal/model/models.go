package model

import (
	"time"

	"gorm.io/gorm"

	"giftstore/internal/utils"
)

type BaseModel struct {
	ID        string     `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate UUID for all models with duplicate checking
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		tableName := tx.Statement.Table
		if tableName == "" {
			tableName = tx.Statement.Schema.Table
		}

		uniqueID, err := utils.GenerateUniqueID(tx, tableName, "id")
		if err != nil {
			return err
		}
		base.ID = uniqueID
	} else {
		normalized, err := utils.NormalizeUUID(base.ID)
		if err != nil {
			return err
		}
		base.ID = normalized
	}
	return nil
}

type User struct {
	BaseModel
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName  *string    `json:"display_name"`
	Email        *string    `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	IsSuperadmin bool       `gorm:"not null;default:false" json:"is_superadmin"`
	Status       int        `gorm:"not null;default:0" json:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	LastIP       *string    `json:"last_ip,omitempty"`
}

type UserPermission struct {
	BaseModel
	UserID     string `gorm:"index:uniq_user_perm,unique;not null" json:"user_id"`
	Permission string `gorm:"index:uniq_user_perm,unique;not null" json:"permission"`
}

// Gift card lifecycle states. Cards are issued inactive and activated when
// sold; redemption happens at checkout and is handled outside this service.
const (
	GiftCardStatusInactive = "inactive"
	GiftCardStatusActive   = "active"
	GiftCardStatusRedeemed = "redeemed"
)

// GiftCard is one redeemable store-credit card. The unique index on Code is
// the final authority on code uniqueness: the issuance path checks candidates
// before inserting, but a concurrent batch that wins the race surfaces here
// as a constraint violation that fails the whole insert.
type GiftCard struct {
	BaseModel
	Code      string  `gorm:"not null;uniqueIndex" json:"code"`
	Value     int     `gorm:"not null" json:"value"`
	Status    string  `gorm:"type:varchar(24);not null;default:'inactive';index" json:"status"`
	CreatedBy string  `gorm:"index;not null" json:"created_by"`
	Note      *string `json:"note,omitempty"`
}

func (GiftCard) TableName() string {
	return "gift_cards"
}
