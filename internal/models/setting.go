package models

import "time"

// GatewaySetting maps to the `gateway_setting` table (single-row config table).
// Credentials live in the database so they can be rotated from the admin API
// without a redeploy.
type GatewaySetting struct {
	ID                      uint      `gorm:"column:id;primaryKey" json:"id"`
	PsStoreID               string    `gorm:"column:ps_store_id;size:100" json:"ps_store_id"`
	HppKey                  string    `gorm:"column:hpp_key;size:100" json:"hpp_key"`
	UseSandbox              bool      `gorm:"column:use_sandbox" json:"use_sandbox"`
	AdditionalFee           float64   `gorm:"column:additional_fee" json:"additional_fee"`
	AdditionalFeePercentage bool      `gorm:"column:additional_fee_percentage" json:"additional_fee_percentage"`
	UpdatedAt               time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (GatewaySetting) TableName() string {
	return "gateway_setting"
}

// APIResponse is the envelope returned by the admin API.
type APIResponse struct {
	Status bool        `json:"status"`
	Msg    string      `json:"msg"`
	Obj    interface{} `json:"obj"`
}
