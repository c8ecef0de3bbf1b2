package models

import "time"

// OrderStatus is the payment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusExpired   OrderStatus = "expired"
)

// Order maps to the `orders` table.
type Order struct {
	ID                uint        `gorm:"column:id;primaryKey" json:"id"`
	OrderGUID         string      `gorm:"column:order_guid;size:36;uniqueIndex" json:"order_guid"`
	CustomerID        uint        `gorm:"column:customer_id;index" json:"customer_id"`
	OrderTotal        float64     `gorm:"column:order_total" json:"order_total"`
	PaymentStatus     OrderStatus `gorm:"column:payment_status;size:20;index" json:"payment_status"`
	TransactionID     string      `gorm:"column:transaction_id;size:64" json:"transaction_id"`
	BillingAddressID  uint        `gorm:"column:billing_address_id" json:"billing_address_id"`
	ShippingAddressID *uint       `gorm:"column:shipping_address_id" json:"shipping_address_id"`
	BillingAddress    *Address    `gorm:"foreignKey:BillingAddressID" json:"billing_address,omitempty"`
	ShippingAddress   *Address    `gorm:"foreignKey:ShippingAddressID" json:"shipping_address,omitempty"`
	PaidAt            *time.Time  `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt         time.Time   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time   `gorm:"column:updated_at" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// CanMarkAsPaid reports whether the order is still eligible for settlement.
// Paid, cancelled and expired orders are terminal.
func (o *Order) CanMarkAsPaid() bool {
	return o.PaymentStatus == OrderStatusPending
}

// Address maps to the `addresses` table.
type Address struct {
	ID            uint   `gorm:"column:id;primaryKey" json:"id"`
	FirstName     string `gorm:"column:first_name;size:100" json:"first_name"`
	LastName      string `gorm:"column:last_name;size:100" json:"last_name"`
	Company       string `gorm:"column:company;size:200" json:"company"`
	Email         string `gorm:"column:email;size:200" json:"email"`
	Phone         string `gorm:"column:phone;size:50" json:"phone"`
	Fax           string `gorm:"column:fax;size:50" json:"fax"`
	Address1      string `gorm:"column:address1;size:300" json:"address1"`
	Address2      string `gorm:"column:address2;size:300" json:"address2"`
	City          string `gorm:"column:city;size:100" json:"city"`
	StateProvince string `gorm:"column:state_province;size:100" json:"state_province"`
	Country       string `gorm:"column:country;size:100" json:"country"`
	ZipPostalCode string `gorm:"column:zip_postal_code;size:20" json:"zip_postal_code"`
}

func (Address) TableName() string {
	return "addresses"
}
